package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is built once at startup and passed into components explicitly.
// Business logic never reads environment state on its own.
type Config struct {
	Port        string
	DatabaseURL string

	TelegramAPIBase  string
	TelegramBotToken string

	OpenAIAPIKey      string
	OpenAIModels      []string
	OpenAIDeepModels  []string
	OpenAIMaxTokens   int
	OpenAICallTimeout time.Duration
}

// Load reads configuration from environment variables. DATABASE_URL and
// TELEGRAM_BOT_TOKEN are required; an absent OpenAI key is allowed here and
// surfaced per-request as a configuration-error reply instead.
func Load() (Config, error) {
	cfg := Config{
		Port:        envOrDefault("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TelegramAPIBase:  envOrDefault("TELEGRAM_API_BASE", "https://api.telegram.org"),
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),

		OpenAIAPIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModels:      envListOrDefault("OPENAI_MODELS", []string{"gpt-4.1-mini"}),
		OpenAIDeepModels:  envListOrDefault("OPENAI_DEEP_MODELS", []string{"gpt-4.1", "gpt-4.1-mini"}),
		OpenAIMaxTokens:   envIntOrDefault("OPENAI_MAX_TOKENS", 500),
		OpenAICallTimeout: time.Duration(envIntOrDefault("OPENAI_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}
	if cfg.TelegramBotToken == "" {
		return Config{}, errors.New("TELEGRAM_BOT_TOKEN is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envListOrDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
