package pipeline

import (
	"context"
	"fmt"
	"time"

	"smart-send/internal/interfaces"
	"smart-send/internal/logger"
	"smart-send/internal/types"
)

// RetryConfig configures whole-pipeline retries. MaxAttempts of 1 disables retrying.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig makes a single attempt.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 1,
		InitialWait: time.Second,
		MaxWait:     5 * time.Second,
	}
}

type retrying struct {
	next   interfaces.Recommender
	config RetryConfig
}

// WithRetry re-runs the whole pipeline on oracle failures. Each attempt performs
// fresh stage calls; invalid input and cancellation are never retried.
func WithRetry(next interfaces.Recommender, config RetryConfig) interfaces.Recommender {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.MaxAttempts == 1 {
		return next
	}
	return &retrying{next: next, config: config}
}

func (r *retrying) Recommend(ctx context.Context, corridor types.Corridor) (*types.Recommendation, error) {
	var lastErr error
	wait := r.config.InitialWait

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		rec, err := r.next.Recommend(ctx, corridor)
		if err == nil {
			return rec, nil
		}
		if !types.Retryable(err) || ctx.Err() != nil {
			return nil, err
		}

		lastErr = err
		if attempt == r.config.MaxAttempts {
			break
		}

		logger.Warn(ctx, "Recommendation failed, retrying",
			"attempt", attempt,
			"max_attempts", r.config.MaxAttempts,
			"error_kind", types.Kind(err),
			"wait", wait,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry wait: %w", ctx.Err())
		case <-time.After(wait):
		}

		wait *= 2
		if r.config.MaxWait > 0 && wait > r.config.MaxWait {
			wait = r.config.MaxWait
		}
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", r.config.MaxAttempts, lastErr)
}
