package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Env     string
	DataDir string
	LLM     LLMConfig
}

type LLMConfig struct {
	// Provider selects the backend: "gemini" (default), "openai", or "mock".
	Provider string

	GeminiAPIKey string
	ChatModel    string
	ImageModel   string

	OpenAIAPIKey string
	OpenAIModel  string

	// ImageCacheEntries bounds the prompt->image LRU. 0 disables caching.
	ImageCacheEntries int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:    *port,
		Env:     env,
		DataDir: strings.TrimSpace(os.Getenv("DATA_DIR")),
		LLM:     loadLLMConfig(),
	}, nil
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = "gemini"
	}
	if parseBoolEnv("MOCK_LLM") {
		provider = "mock"
	}
	return LLMConfig{
		Provider:          provider,
		GeminiAPIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ChatModel:         firstNonEmpty(strings.TrimSpace(os.Getenv("CHAT_MODEL")), "gemini-3-pro-preview"),
		ImageModel:        firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_MODEL")), "gemini-2.5-flash-image"),
		OpenAIAPIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:       firstNonEmpty(strings.TrimSpace(os.Getenv("OPENAI_MODEL")), "gpt-4o-mini"),
		ImageCacheEntries: parseIntEnv("IMAGE_CACHE_ENTRIES", 64),
	}
}

func parseBoolEnv(key string) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

func parseIntEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
