package llmclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	genai "google.golang.org/genai"

	"vibecoder/internal/chat"
)

// GeminiBackend is a thin wrapper around the official genai client. It holds
// the chat and image model names; sessions come from the Chats service so the
// SDK keeps the turn-history mirror for us.
type GeminiBackend struct {
	cli        *genai.Client
	chatModel  string
	imageModel string
}

// NewGeminiBackend constructs the backend with an explicit API key. An empty
// key is allowed; the genai client then reads it from the environment.
func NewGeminiBackend(ctx context.Context, apiKey, chatModel, imageModel string) (*GeminiBackend, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiBackend{cli: cli, chatModel: chatModel, imageModel: imageModel}, nil
}

func (g *GeminiBackend) Name() string { return "Gemini:" + g.chatModel }

// NewSession replays the conversation as genai history and creates a chat
// with the fixed persona and the Google Search tool enabled.
func (g *GeminiBackend) NewSession(ctx context.Context, history []chat.Message) (chat.BackendSession, error) {
	replay := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		replay = append(replay, &genai.Content{
			Role:  string(msg.Role),
			Parts: messageParts(msg.Content, msg.Images, msg.URL, true),
		})
	}
	c, err := g.cli.Chats.Create(ctx, g.chatModel,
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
			Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		},
		replay,
	)
	if err != nil {
		return nil, err
	}
	return &geminiSession{chat: c}, nil
}

type geminiSession struct {
	chat *genai.Chat
}

// SendTurn dispatches one composite turn. Transport failures are recovered
// here: the caller gets a fixed failure text as the reply rather than an
// error, so a flaky network degrades to a conversational apology.
func (s *geminiSession) SendTurn(ctx context.Context, text string, images []string, url string) (chat.TurnResult, error) {
	parts := messageParts(text, images, url, false)
	vals := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		vals = append(vals, *p)
	}

	resp, err := s.chat.SendMessage(ctx, vals...)
	if err != nil {
		log.Printf("llmclient: send turn: %v", err)
		return chat.TurnResult{Text: sendErrorFallback}, nil
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return chat.TurnResult{Text: emptyReplyFallback}, nil
	}
	cand := resp.Candidates[0]

	var reply strings.Builder
	for _, p := range cand.Content.Parts {
		reply.WriteString(p.Text)
	}
	out := chat.TurnResult{Text: reply.String()}
	if out.Text == "" {
		out.Text = emptyReplyFallback
	}

	out.GroundingLinks = extractGroundingLinks(cand.GroundingMetadata)
	return out, nil
}

// extractGroundingLinks flattens search grounding chunks into links. Chunks
// without a web URI are skipped; a chunk with no title gets the URI as its
// title so the UI always has something to render.
func extractGroundingLinks(md *genai.GroundingMetadata) []chat.GroundingLink {
	if md == nil {
		return nil
	}
	var links []chat.GroundingLink
	for _, chunk := range md.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		links = append(links, chat.GroundingLink{Title: title, URI: chunk.Web.URI})
	}
	return links
}

// GenerateImage runs a one-shot synthesis call and returns the first inline
// image part as a PNG data URI. "" means the model declined or errored.
func (g *GeminiBackend) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.imageModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		log.Printf("llmclient: generate image: %v", err)
		return "", nil
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return "data:image/png;base64," + base64.StdEncoding.EncodeToString(p.InlineData.Data), nil
			}
		}
	}
	return "", nil
}

// messageParts builds the genai parts for one message: the text, an inline
// JPEG part per attached data URI, and a synthesized URL text part. The URL
// wording differs between replayed history and a live turn, matching what the
// model saw when the turn was first sent.
func messageParts(text string, images []string, url string, replay bool) []*genai.Part {
	parts := []*genai.Part{{Text: text}}
	for _, img := range images {
		if p := inlineImagePart(img); p != nil {
			parts = append(parts, p)
		}
	}
	if url != "" {
		if replay {
			parts = append(parts, &genai.Part{Text: "Reference URL: " + url})
		} else {
			parts = append(parts, &genai.Part{Text: fmt.Sprintf("[Context URL provided to read and check: %s]", url)})
		}
	}
	return parts
}

// inlineImagePart decodes a base64 data URI into an inline blob part.
// Undecodable attachments are dropped with a log line.
func inlineImagePart(dataURI string) *genai.Part {
	_, b64, found := strings.Cut(dataURI, ",")
	if !found {
		b64 = dataURI
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		log.Printf("llmclient: skipping undecodable image attachment: %v", err)
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: raw}}
}
