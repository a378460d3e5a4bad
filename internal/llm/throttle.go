package llm

import (
	"context"
	"sync"
	"time"
)

// Throttle is a token bucket that spaces out oracle calls on the client side.
type Throttle struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewThrottle allows perMinute calls per minute with a burst of the same size.
// It returns nil when perMinute is not positive, which disables throttling.
func NewThrottle(perMinute int) *Throttle {
	if perMinute <= 0 {
		return nil
	}
	return &Throttle{
		tokens:         perMinute,
		maxTokens:      perMinute,
		refillRate:     time.Minute / time.Duration(perMinute),
		lastRefillTime: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	for {
		if t.tryAcquire() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (t *Throttle) tryAcquire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if add := int(now.Sub(t.lastRefillTime) / t.refillRate); add > 0 {
		t.tokens += add
		if t.tokens > t.maxTokens {
			t.tokens = t.maxTokens
		}
		t.lastRefillTime = t.lastRefillTime.Add(time.Duration(add) * t.refillRate)
	}

	if t.tokens > 0 {
		t.tokens--
		return true
	}
	return false
}
