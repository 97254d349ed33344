package ai

import (
	"context"
	"errors"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Config for the OpenAI client. Filled from the startup configuration;
// the client never reads environment state itself.
type Config struct {
	APIKey      string
	BaseURL     string // empty means the default API endpoint
	Models      []string
	DeepModels  []string
	MaxTokens   int
	CallTimeout time.Duration
}

type OpenAIClient struct {
	client *openai.Client
	cfg    Config
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	if len(cfg.Models) == 0 {
		cfg.Models = []string{"gpt-4.1-mini"}
	}
	if len(cfg.DeepModels) == 0 {
		cfg.DeepModels = []string{"gpt-4.1", "gpt-4.1-mini"}
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = 30 * time.Second
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Complete tries each model in the fallback list in order and returns the
// first successful reply. The credential check happens before any call.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, deep bool) (string, error) {
	if len(c.cfg.APIKey) < 10 {
		return "", ErrNotConfigured
	}

	models := c.cfg.Models
	if deep {
		models = c.cfg.DeepModels
	}

	for _, model := range models {
		reply, err := c.complete(ctx, model, prompt)
		if err != nil {
			log.Printf("[ai] model %s failed: %v", model, err)
			continue
		}
		return reply, nil
	}

	return "", ErrUnavailable
}

func (c *OpenAIClient) complete(ctx context.Context, model, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}
