package llmobs

import (
	"context"
	"time"

	"smart-send/internal/interfaces"
	"smart-send/internal/logger"
	"smart-send/internal/trace"
	"smart-send/internal/types"
)

// observableProvider wraps a Provider with observability (logging & tracing)
type observableProvider struct {
	provider interfaces.Provider
	name     string
	model    string
}

// Compile-time interface check
var _ interfaces.Provider = (*observableProvider)(nil)

// Wrap wraps a provider with observability middleware
func Wrap(provider interfaces.Provider, name, model string) interfaces.Provider {
	return &observableProvider{
		provider: provider,
		name:     name,
		model:    model,
	}
}

// Complete calls the wrapped provider and logs latency and sizes. Results pass through unchanged.
func (op *observableProvider) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting completion",
		"provider", op.name,
		"model", op.model,
		"system_chars", len(req.System),
		"prompt_chars", len(req.Prompt),
	)

	start := time.Now()
	text, err := op.provider.Complete(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Completion failed", err,
			"provider", op.name,
			"model", op.model,
			"kind", types.Kind(err),
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	if text == "" {
		logger.WarnSkip(ctx, 1, "Completion returned no text",
			"provider", op.name,
			"model", op.model,
		)
	}
	logger.DebugSkip(ctx, 1, "Completion received",
		"provider", op.name,
		"model", op.model,
		"response_chars", len(text),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return text, nil
}
