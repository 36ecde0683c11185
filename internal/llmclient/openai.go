package llmclient

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"vibecoder/internal/chat"
)

// OpenAIBackend is a fallback text provider over chat completions. It has no
// web-search grounding and no image synthesis; GenerateImage always declines,
// which downstream surfaces as the standard image apology. Screenshots are
// summarized textually since the completions path here is text-only.
type OpenAIBackend struct {
	model string
	opts  []option.RequestOption
}

func NewOpenAIBackend(apiKey, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llmclient: openai api key missing")
	}
	if model == "" {
		return nil, fmt.Errorf("llmclient: openai model is required")
	}
	return &OpenAIBackend{
		model: model,
		opts:  []option.RequestOption{option.WithAPIKey(apiKey)},
	}, nil
}

func (o *OpenAIBackend) Name() string { return "OpenAI:" + o.model }

func (o *OpenAIBackend) NewSession(_ context.Context, history []chat.Message) (chat.BackendSession, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemInstruction),
	}
	for _, msg := range history {
		switch msg.Role {
		case chat.RoleModel:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(msg.Content))
		default:
			msgs = append(msgs, openai.UserMessage(flattenTurn(msg.Content, msg.Images, msg.URL)))
		}
	}
	return &openaiSession{backend: o, history: msgs}, nil
}

type openaiSession struct {
	backend *OpenAIBackend
	history []openai.ChatCompletionMessageParamUnion
}

func (s *openaiSession) SendTurn(ctx context.Context, text string, images []string, url string) (chat.TurnResult, error) {
	client := openai.NewClient(s.backend.opts...)

	outgoing := openai.UserMessage(flattenTurn(text, images, url))
	msgs := append(append([]openai.ChatCompletionMessageParamUnion{}, s.history...), outgoing)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(s.backend.model),
		Messages: msgs,
	})
	if err != nil {
		log.Printf("llmclient: openai send turn: %v", err)
		return chat.TurnResult{Text: sendErrorFallback}, nil
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return chat.TurnResult{Text: emptyReplyFallback}, nil
	}
	reply := resp.Choices[0].Message.Content

	// Keep the backend-side mirror current only on success so a failed turn
	// can be retried without ghost history.
	s.history = append(s.history, outgoing, openai.ChatCompletionMessageParamOfAssistant(reply))
	return chat.TurnResult{Text: reply}, nil
}

// GenerateImage declines: this provider carries no image capability.
func (o *OpenAIBackend) GenerateImage(context.Context, string) (string, error) {
	return "", nil
}

// flattenTurn folds image and URL attachments into the text, the closest
// equivalent of the multimodal parts the primary backend sends.
func flattenTurn(text string, images []string, url string) string {
	var b strings.Builder
	b.WriteString(text)
	if len(images) > 0 {
		fmt.Fprintf(&b, "\n[%d screenshot(s) attached; image content not available to this provider]", len(images))
	}
	if url != "" {
		fmt.Fprintf(&b, "\n[Context URL provided to read and check: %s]", url)
	}
	return b.String()
}
