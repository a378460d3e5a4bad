package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-send/internal/types"
)

func TestCompleteSendsSystemAndUserMessages(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"llama-3.3-70b-versatile",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Favorable — steady rupee."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := New(Params{APIKey: "test-key", BaseURL: srv.URL, Model: "llama-3.3-70b-versatile", MaxTokens: 200})
	text, err := p.Complete(context.Background(), types.CompletionRequest{System: "sys", Prompt: "Analyze FX trend for corridor: US to INDIA"})
	require.NoError(t, err)

	assert.Equal(t, "Favorable — steady rupee.", text)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "sys", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Analyze FX trend for corridor: US to INDIA", got.Messages[1].Content)
}

func TestCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit reached","type":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	p := New(Params{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	_, err := p.Complete(context.Background(), types.CompletionRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteNoChoicesIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[]}`))
	}))
	defer srv.Close()

	text, err := New(Params{APIKey: "k", BaseURL: srv.URL, Model: "m"}).
		Complete(context.Background(), types.CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCompleteMissingKey(t *testing.T) {
	_, err := New(Params{Model: "m"}).Complete(context.Background(), types.CompletionRequest{Prompt: "p"})
	assert.True(t, errors.Is(err, types.ErrOracleUnavailable))
}
