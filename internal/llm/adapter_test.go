package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-send/internal/role"
	"smart-send/internal/types"
)

type fakeProvider struct {
	calls atomic.Int32
	last  types.CompletionRequest
	fn    func(ctx context.Context, req types.CompletionRequest) (string, error)
}

func (f *fakeProvider) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	f.calls.Add(1)
	f.last = req
	return f.fn(ctx, req)
}

func testRole(t *testing.T) *role.Config {
	t.Helper()
	r, err := role.New("FX Trend Agent", []string{"Start with one word."}, role.StyleMarkdown)
	require.NoError(t, err)
	return r
}

func blockingProvider() *fakeProvider {
	return &fakeProvider{fn: func(ctx context.Context, _ types.CompletionRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
}

func TestAdapterRunPassesRoleAndNormalizes(t *testing.T) {
	p := &fakeProvider{fn: func(context.Context, types.CompletionRequest) (string, error) {
		return "\r\n  Favorable — rates look good.\r\nMore detail.  \r\n", nil
	}}
	r := testRole(t)
	a := NewAdapter(p)

	got, err := a.Run(context.Background(), r, "Analyze FX trend for corridor: US to INDIA")
	require.NoError(t, err)
	assert.Equal(t, "Favorable — rates look good.\nMore detail.", got)
	assert.Equal(t, int32(1), p.calls.Load())
	assert.Equal(t, r.SystemPrompt(), p.last.System)
	assert.Equal(t, "Analyze FX trend for corridor: US to INDIA", p.last.Prompt)
	assert.True(t, p.last.Markdown)
}

func TestAdapterRejectsInvalidInput(t *testing.T) {
	p := &fakeProvider{fn: func(context.Context, types.CompletionRequest) (string, error) { return "x", nil }}
	a := NewAdapter(p)

	_, err := a.Run(context.Background(), testRole(t), "   ")
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = a.Run(context.Background(), nil, "prompt")
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	assert.Equal(t, int32(0), p.calls.Load())
}

func TestAdapterTimeout(t *testing.T) {
	p := blockingProvider()
	a := NewAdapter(p, WithTimeout(20*time.Millisecond))

	_, err := a.Run(context.Background(), testRole(t), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrOracleTimeout)
	assert.NotErrorIs(t, err, types.ErrOracleUnavailable)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestAdapterCallerCancellation(t *testing.T) {
	p := blockingProvider()
	a := NewAdapter(p, WithTimeout(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := a.Run(ctx, testRole(t), "prompt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, types.ErrOracleTimeout)
}

func TestAdapterUnavailable(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	p := &fakeProvider{fn: func(context.Context, types.CompletionRequest) (string, error) { return "", boom }}
	a := NewAdapter(p)

	_, err := a.Run(context.Background(), testRole(t), "prompt")
	assert.ErrorIs(t, err, types.ErrOracleUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), p.calls.Load(), "adapter must not retry")
}

func TestAdapterKeepsClassifiedErrors(t *testing.T) {
	p := &fakeProvider{fn: func(context.Context, types.CompletionRequest) (string, error) {
		return "", types.ErrOracleTimeout
	}}
	_, err := NewAdapter(p).Run(context.Background(), testRole(t), "prompt")
	assert.ErrorIs(t, err, types.ErrOracleTimeout)
	assert.NotErrorIs(t, err, types.ErrOracleUnavailable)
}

func TestAdapterThrottleHonorsDeadline(t *testing.T) {
	p := &fakeProvider{fn: func(context.Context, types.CompletionRequest) (string, error) { return "ok", nil }}
	th := NewThrottle(1)
	a := NewAdapter(p, WithThrottle(th), WithTimeout(30*time.Millisecond))

	_, err := a.Run(context.Background(), testRole(t), "first")
	require.NoError(t, err)

	// bucket is empty for the next minute
	_, err = a.Run(context.Background(), testRole(t), "second")
	assert.ErrorIs(t, err, types.ErrOracleTimeout)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestNewThrottleDisabled(t *testing.T) {
	assert.Nil(t, NewThrottle(0))
	assert.Nil(t, NewThrottle(-5))
}

func TestNewProviderUnknownIsUnavailable(t *testing.T) {
	p := NewProvider(ProviderParams{Provider: "carrier-pigeon"})
	_, err := p.Complete(context.Background(), types.CompletionRequest{Prompt: "hi"})
	assert.ErrorIs(t, err, types.ErrOracleUnavailable)
}
