package openai

import (
	"context"
	"errors"
	"fmt"

	"smart-send/internal/interfaces"
	"smart-send/internal/trace"
	"smart-send/internal/types"

	openai "github.com/sashabaranov/go-openai"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// Params configures a chat-completions client
type Params struct {
	APIKey      string
	BaseURL     string // empty means api.openai.com
	Model       string
	MaxTokens   int
	Temperature float32
}

// Provider calls an OpenAI-compatible chat completions endpoint (OpenAI, Groq).
type Provider struct {
	client *openai.Client
	params Params
}

var _ interfaces.Provider = (*Provider)(nil)

// New builds a provider. A missing key is reported on the first call, not here,
// so the CLI can still print a useful error through the normal error path.
func New(p Params) *Provider {
	cfg := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
	}
	return &Provider{
		client: openai.NewClientWithConfig(cfg),
		params: p,
	}
}

// Complete sends one chat completion request and returns the first choice's content.
func (p *Provider) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if p.params.APIKey == "" {
		return "", fmt.Errorf("%w: api key missing", types.ErrOracleUnavailable)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   p.params.MaxTokens,
		Temperature: p.params.Temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai http %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", err
	}

	// no choices is an empty answer; the stage reports it as a malformed response
	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
