package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibecoder/internal/chat"
	"vibecoder/internal/gateway/config"
	"vibecoder/internal/gateway/handler"
	"vibecoder/internal/gateway/server"
	"vibecoder/internal/llmclient"
	"vibecoder/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	backend, err := buildBackend(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("init llm backend: %v", err)
	}

	svc, err := chat.New(ctx, backend, store.New(cfg.DataDir))
	if err != nil {
		log.Fatalf("init conversation: %v", err)
	}

	mux := server.NewMux(
		handler.NewChatWSHandler(svc),
		handler.NewRestHandler(svc),
	)
	srv := server.New(cfg.Port, mux)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server: %v", err)
		}
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}

// buildBackend selects the provider and wraps it with the image-prompt cache.
func buildBackend(ctx context.Context, cfg config.LLMConfig) (chat.Backend, error) {
	var (
		backend chat.Backend
		err     error
	)
	switch cfg.Provider {
	case "gemini":
		backend, err = llmclient.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.ChatModel, cfg.ImageModel)
	case "openai":
		backend, err = llmclient.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "mock":
		log.Printf("using mock llm backend")
		backend = &llmclient.MockBackend{}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if cfg.ImageCacheEntries > 0 {
		return llmclient.WithImageCache(backend, cfg.ImageCacheEntries)
	}
	return backend, nil
}
