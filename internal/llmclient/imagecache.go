package llmclient

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"vibecoder/internal/chat"
)

// CachedImageBackend memoizes GenerateImage by exact prompt so repeating a
// mockup request does not re-synthesize the same image. Session creation and
// turns pass straight through. Declined results ("") are not cached; a retry
// should hit the backend again.
type CachedImageBackend struct {
	chat.Backend
	cache *lru.Cache[string, string]
}

func WithImageCache(b chat.Backend, entries int) (*CachedImageBackend, error) {
	cache, err := lru.New[string, string](entries)
	if err != nil {
		return nil, err
	}
	return &CachedImageBackend{Backend: b, cache: cache}, nil
}

func (c *CachedImageBackend) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if img, ok := c.cache.Get(prompt); ok {
		return img, nil
	}
	img, err := c.Backend.GenerateImage(ctx, prompt)
	if err == nil && img != "" {
		c.cache.Add(prompt, img)
	}
	return img, err
}
