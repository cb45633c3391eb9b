package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Config carries everything the generation path needs from process
// configuration. It is passed in explicitly so the missing-config failure
// path is testable without touching the environment.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Validate reports the first missing required field, or nil.
func (c Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.New("openrouter base URL is not configured")
	case c.APIKey == "":
		return errors.New("openrouter API key is not configured")
	case c.Model == "":
		return errors.New("openrouter model is not configured")
	}
	return nil
}

// Transport sends one instruction/prompt pair to the generative model and
// returns its raw text. Callers treat the output as untrusted text only.
type Transport interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type openRouterTransport struct {
	client openai.Client
	model  string
}

// NewOpenRouterTransport builds a Transport backed by OpenRouter's
// OpenAI-compatible chat completions endpoint.
func NewOpenRouterTransport(cfg Config) Transport {
	return &openRouterTransport{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
		),
		model: cfg.Model,
	}
}

func (t *openRouterTransport) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(t.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
