package noop

import (
	"context"
	"fmt"

	"smart-send/internal/logger"
	"smart-send/internal/types"
)

// Provider is used when no LLM provider is configured. It never fabricates text:
// every call fails with ErrOracleUnavailable.
type Provider struct {
	reason string
}

// New returns a provider that always reports the given reason
func New(reason string) *Provider {
	if reason == "" {
		reason = "no llm provider configured"
	}
	return &Provider{reason: reason}
}

// Complete fails with ErrOracleUnavailable without contacting anything.
func (p *Provider) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	logger.Debug(ctx, "Noop provider called - no completion available", "reason", p.reason)
	return "", fmt.Errorf("%w: %s", types.ErrOracleUnavailable, p.reason)
}
