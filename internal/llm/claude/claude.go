package claude

import (
	"context"
	"fmt"
	"strings"

	"smart-send/internal/interfaces"
	"smart-send/internal/trace"
	"smart-send/internal/types"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// Params configures the Anthropic Messages client
type Params struct {
	APIKey string
	// BaseURL overrides the default endpoint (proxy, bedrock gateway, tests)
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// Provider calls the Anthropic Messages API
type Provider struct {
	client *anthropic.Client
	params Params
}

var _ interfaces.Provider = (*Provider)(nil)

func New(p Params) *Provider {
	opts := make([]anthropic.ClientOption, 0, 1)
	if p.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(p.BaseURL))
	}
	if p.MaxTokens <= 0 {
		// the Messages API rejects requests without max_tokens
		p.MaxTokens = 1024
	}
	return &Provider{
		client: anthropic.NewClient(p.APIKey, opts...),
		params: p,
	}
}

// Complete sends one Messages request and joins the text blocks of the reply.
func (p *Provider) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if p.params.APIKey == "" {
		return "", fmt.Errorf("%w: ANTHROPIC_API_KEY missing", types.ErrOracleUnavailable)
	}

	temperature := p.params.Temperature
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(p.params.Model),
		System:      req.System,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(req.Prompt)},
		MaxTokens:   p.params.MaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	var parts []string
	for i := range resp.Content {
		if text := resp.Content[i].GetText(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
