package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-send/internal/journal"
	"smart-send/internal/llm"
	"smart-send/internal/pipeline/pipelineobs"
	"smart-send/internal/store"
	"smart-send/internal/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrInvalidInput, 2},
		{&types.StageError{Stage: "fx_trend", Err: types.ErrOracleTimeout}, 3},
		{fmt.Errorf("all 3 attempts failed: %w", types.ErrOracleUnavailable), 4},
		{types.ErrMalformedResponse, 5},
		{fmt.Errorf("oracle call: %w", context.Canceled), 130},
		{errors.New("boom"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), tt.err.Error())
	}
}

func TestProviderParamsReadsKeyForProvider(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")
	t.Setenv("LLM_BASE_URL", "")

	cfg := store.Default()
	p := providerParams(cfg)
	assert.Equal(t, llm.ProviderGroq, p.Provider)
	assert.Equal(t, "groq-key", p.APIKey)
	assert.Equal(t, "llama-3.3-70b-versatile", p.Model)

	cfg.LLM.Provider = llm.ProviderClaude
	assert.Equal(t, "anthropic-key", providerParams(cfg).APIKey)
}

type recordingRecommender struct {
	runID string
	err   error
}

func (r *recordingRecommender) Recommend(ctx context.Context, corridor types.Corridor) (*types.Recommendation, error) {
	r.runID, _ = pipelineobs.RunIDFromContext(ctx)
	if r.err != nil {
		return nil, r.err
	}
	return &types.Recommendation{Corridor: corridor, Text: "Consider Waiting", Verdict: types.ConsiderWaiting}, nil
}

func readJournal(t *testing.T, dir string) []journal.Entry {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "recommendations", "*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	f, err := os.Open(files[0])
	require.NoError(t, err)
	defer f.Close()

	var entries []journal.Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e journal.Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func TestRecommendJournalsRunID(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingRecommender{}
	a := &app{cfg: store.Default(), recommender: pipelineobs.Wrap(rec), journal: journal.New(dir)}

	_, err := a.recommend(context.Background(), "US to INDIA")
	require.NoError(t, err)

	rec.err = &types.StageError{Stage: "fx_trend", Err: types.ErrOracleTimeout}
	_, err = a.recommend(context.Background(), "US to INDIA")
	require.Error(t, err)
	failedID := rec.runID

	entries := readJournal(t, dir)
	require.Len(t, entries, 2)
	for _, e := range entries {
		_, perr := uuid.Parse(e.RunID)
		assert.NoError(t, perr, "run_id %q", e.RunID)
	}
	assert.Equal(t, failedID, entries[1].RunID)
	assert.Equal(t, "OracleTimeout", entries[1].ErrorKind)
	assert.NotEqual(t, entries[0].RunID, entries[1].RunID)
}

func TestRatesClientUsesLookupTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := store.Default()
	cfg.Capabilities.Rates.Endpoint = srv.URL
	cfg.Capabilities.LookupTimeout = 50 * time.Millisecond

	start := time.Now()
	_, err := newRatesClient(cfg).Get(context.Background(), "/v6/latest/USD")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
