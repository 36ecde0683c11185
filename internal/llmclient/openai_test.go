package llmclient

import (
	"context"
	"strings"
	"testing"
)

func TestNewOpenAIBackendRequiresKeyAndModel(t *testing.T) {
	if _, err := NewOpenAIBackend("", "gpt-4o-mini"); err == nil {
		t.Fatalf("NewOpenAIBackend accepted an empty api key")
	}
	if _, err := NewOpenAIBackend("sk-test", ""); err == nil {
		t.Fatalf("NewOpenAIBackend accepted an empty model")
	}
	if _, err := NewOpenAIBackend("sk-test", "gpt-4o-mini"); err != nil {
		t.Fatalf("NewOpenAIBackend() error = %v", err)
	}
}

func TestOpenAIGenerateImageDeclines(t *testing.T) {
	b, err := NewOpenAIBackend("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewOpenAIBackend() error = %v", err)
	}
	img, err := b.GenerateImage(context.Background(), "a red button")
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if img != "" {
		t.Fatalf("GenerateImage() = %q, want declined", img)
	}
}

func TestFlattenTurn(t *testing.T) {
	got := flattenTurn("check this", []string{"data:1", "data:2"}, "https://example.com")
	if !strings.HasPrefix(got, "check this") {
		t.Fatalf("flattenTurn dropped the text: %q", got)
	}
	if !strings.Contains(got, "2 screenshot(s)") {
		t.Fatalf("flattenTurn missing image note: %q", got)
	}
	if !strings.Contains(got, "[Context URL provided to read and check: https://example.com]") {
		t.Fatalf("flattenTurn missing url note: %q", got)
	}
}
