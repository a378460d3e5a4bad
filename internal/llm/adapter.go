package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smart-send/internal/interfaces"
	"smart-send/internal/role"
	"smart-send/internal/types"
)

// Adapter is the only component that talks to a completion provider.
// It performs exactly one provider call per Run and never retries.
type Adapter struct {
	provider interfaces.Provider
	timeout  time.Duration
	throttle *Throttle
}

var _ interfaces.Oracle = (*Adapter)(nil)

// Option configures an Adapter
type Option func(*Adapter)

// WithTimeout bounds every oracle call. Zero disables the adapter deadline.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		a.timeout = d
	}
}

// WithThrottle makes every call wait for a throttle token first.
func WithThrottle(t *Throttle) Option {
	return func(a *Adapter) {
		a.throttle = t
	}
}

// NewAdapter wraps a provider. The provider must already be configured with credentials.
func NewAdapter(provider interfaces.Provider, opts ...Option) *Adapter {
	a := &Adapter{
		provider: provider,
		timeout:  60 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run sends prompt under the role's system prompt and returns the provider text with
// line endings normalized and outer whitespace trimmed.
func (a *Adapter) Run(ctx context.Context, r *role.Config, prompt string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: role is nil", types.ErrInvalidInput)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", types.ErrInvalidInput)
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if a.throttle != nil {
		if err := a.throttle.Wait(callCtx); err != nil {
			return "", a.classify(ctx, callCtx, err)
		}
	}

	text, err := a.provider.Complete(callCtx, types.CompletionRequest{
		System:   r.SystemPrompt(),
		Prompt:   prompt,
		Markdown: r.Style() == role.StyleMarkdown,
	})
	if err != nil {
		return "", a.classify(ctx, callCtx, err)
	}

	return normalize(text), nil
}

// classify maps a provider failure onto the oracle error kinds.
func (a *Adapter) classify(parent, call context.Context, err error) error {
	switch {
	case errors.Is(err, types.ErrOracleTimeout), errors.Is(err, types.ErrOracleUnavailable):
		return err
	case errors.Is(parent.Err(), context.Canceled):
		return fmt.Errorf("oracle call: %w", context.Canceled)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(call.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: no response within %s: %v", types.ErrOracleTimeout, a.timeout, err)
	default:
		return fmt.Errorf("%w: %w", types.ErrOracleUnavailable, err)
	}
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}
