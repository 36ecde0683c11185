package llmclient

import (
	"encoding/base64"
	"testing"

	genai "google.golang.org/genai"

	"vibecoder/internal/chat"
)

func TestMessagePartsLiveTurn(t *testing.T) {
	img := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("pixels"))
	parts := messageParts("look at this", []string{img}, "https://example.com", false)

	if len(parts) != 3 {
		t.Fatalf("parts length = %d, want 3", len(parts))
	}
	if parts[0].Text != "look at this" {
		t.Fatalf("parts[0].Text = %q", parts[0].Text)
	}
	if parts[1].InlineData == nil || string(parts[1].InlineData.Data) != "pixels" {
		t.Fatalf("parts[1] is not the decoded image blob: %+v", parts[1])
	}
	if parts[1].InlineData.MIMEType != "image/jpeg" {
		t.Fatalf("blob mime = %q", parts[1].InlineData.MIMEType)
	}
	if want := "[Context URL provided to read and check: https://example.com]"; parts[2].Text != want {
		t.Fatalf("parts[2].Text = %q, want %q", parts[2].Text, want)
	}
}

func TestMessagePartsReplayUsesReferenceWording(t *testing.T) {
	parts := messageParts("earlier turn", nil, "https://example.com", true)
	if len(parts) != 2 {
		t.Fatalf("parts length = %d, want 2", len(parts))
	}
	if want := "Reference URL: https://example.com"; parts[1].Text != want {
		t.Fatalf("parts[1].Text = %q, want %q", parts[1].Text, want)
	}
}

func TestMessagePartsDropsUndecodableImage(t *testing.T) {
	parts := messageParts("text", []string{"data:image/png;base64,%%%not-base64%%%"}, "", false)
	if len(parts) != 1 {
		t.Fatalf("parts length = %d, want 1 (bad image dropped)", len(parts))
	}
}

func TestInlineImagePartWithoutDataURIPrefix(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("pixels"))
	p := inlineImagePart(raw)
	if p == nil || p.InlineData == nil || string(p.InlineData.Data) != "pixels" {
		t.Fatalf("inlineImagePart(bare base64) = %+v", p)
	}
}

func TestExtractGroundingLinks(t *testing.T) {
	tests := []struct {
		name string
		md   *genai.GroundingMetadata
		want []chat.GroundingLink
	}{
		{
			name: "nil metadata",
			md:   nil,
			want: nil,
		},
		{
			name: "titled chunk",
			md: &genai.GroundingMetadata{GroundingChunks: []*genai.GroundingChunk{
				{Web: &genai.GroundingChunkWeb{Title: "Example", URI: "https://example.com"}},
			}},
			want: []chat.GroundingLink{{Title: "Example", URI: "https://example.com"}},
		},
		{
			name: "missing title falls back to the URI",
			md: &genai.GroundingMetadata{GroundingChunks: []*genai.GroundingChunk{
				{Web: &genai.GroundingChunkWeb{URI: "https://example.com/doc"}},
			}},
			want: []chat.GroundingLink{{Title: "https://example.com/doc", URI: "https://example.com/doc"}},
		},
		{
			name: "nil web and empty URI chunks skipped",
			md: &genai.GroundingMetadata{GroundingChunks: []*genai.GroundingChunk{
				{Web: nil},
				{Web: &genai.GroundingChunkWeb{Title: "no uri"}},
				{Web: &genai.GroundingChunkWeb{Title: "kept", URI: "https://example.com/kept"}},
			}},
			want: []chat.GroundingLink{{Title: "kept", URI: "https://example.com/kept"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractGroundingLinks(tt.md)
			if len(got) != len(tt.want) {
				t.Fatalf("extractGroundingLinks() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("link %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
