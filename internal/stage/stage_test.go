package stage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-send/internal/role"
	"smart-send/internal/types"
)

type call struct {
	system string
	prompt string
}

type fakeOracle struct {
	mu    sync.Mutex
	calls []call
	text  string
	err   error
}

func (f *fakeOracle) Run(_ context.Context, r *role.Config, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{system: r.SystemPrompt(), prompt: prompt})
	return f.text, f.err
}

type fakeCapability struct {
	name string
	info string
	err  error
	seen string
}

func (c *fakeCapability) Name() string        { return c.name }
func (c *fakeCapability) Description() string { return "test data" }
func (c *fakeCapability) Lookup(_ context.Context, corridor string) (string, error) {
	c.seen = corridor
	return c.info, c.err
}

func TestExtractLabel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.Label
	}{
		{"exact", "Favorable — the rupee is steady.", types.Favorable},
		{"lowercase", "unfavorable because of volatility", types.Unfavorable},
		{"leading whitespace", "\n\n  Uncertain\nmixed signals", types.Uncertain},
		{"punctuation attached", "Favorable. Rates look good.", types.NoLabel},
		{"sentiment word for fx", "Positive outlook", types.NoLabel},
		{"empty", "", types.NoLabel},
		{"later mention only", "The trend is Favorable", types.NoLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLabel(tt.text, FXLabels))
		})
	}
}

func TestAnalyzeSingleCallAndLabel(t *testing.T) {
	o := &fakeOracle{text: "Favorable — the rupee has been steady."}
	r, err := role.FXTrend()
	require.NoError(t, err)
	s, err := NewFXTrend(o, r)
	require.NoError(t, err)

	res, err := s.Analyze(context.Background(), "US to INDIA")
	require.NoError(t, err)

	want := types.StageResult{
		Stage:   FXTrendName,
		RawText: "Favorable — the rupee has been steady.",
		Label:   types.Favorable,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, o.calls, 1)
	assert.Equal(t, "Analyze FX trend for corridor: US to INDIA", o.calls[0].prompt)
	assert.Equal(t, r.SystemPrompt(), o.calls[0].system)
}

func TestAnalyzeAbsentLabelKeepsText(t *testing.T) {
	o := &fakeOracle{text: "Markets are mixed this week."}
	r, err := role.Sentiment()
	require.NoError(t, err)
	s, err := NewSentiment(o, r)
	require.NoError(t, err)

	res, err := s.Analyze(context.Background(), "UK to NIGERIA")
	require.NoError(t, err)
	assert.Equal(t, types.NoLabel, res.Label)
	assert.Equal(t, "Markets are mixed this week.", res.RawText)
	assert.Equal(t, "Analyze recent news affecting this corridor: UK to NIGERIA", o.calls[0].prompt)
}

func TestAnalyzeEmptyCorridor(t *testing.T) {
	o := &fakeOracle{text: "Favorable"}
	r, err := role.FXTrend()
	require.NoError(t, err)
	s, err := NewFXTrend(o, r)
	require.NoError(t, err)

	_, err = s.Analyze(context.Background(), "   ")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Empty(t, o.calls)
}

func TestAnalyzeWrapsOracleErrors(t *testing.T) {
	o := &fakeOracle{err: types.ErrOracleTimeout}
	r, err := role.FXTrend()
	require.NoError(t, err)
	s, err := NewFXTrend(o, r)
	require.NoError(t, err)

	_, err = s.Analyze(context.Background(), "US to INDIA")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrOracleTimeout)

	var stageErr *types.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, FXTrendName, stageErr.Stage)
}

func TestAnalyzeBlankTextIsMalformed(t *testing.T) {
	o := &fakeOracle{text: "  \n"}
	r, err := role.Sentiment()
	require.NoError(t, err)
	s, err := NewSentiment(o, r)
	require.NoError(t, err)

	_, err = s.Analyze(context.Background(), "US to INDIA")
	assert.ErrorIs(t, err, types.ErrMalformedResponse)
}

func TestSentimentRejectsCapabilities(t *testing.T) {
	r, err := role.New(role.SentimentIdentity, []string{"x"}, role.StyleMarkdown, &fakeCapability{name: "rates"})
	require.NoError(t, err)

	_, err = NewSentiment(&fakeOracle{}, r)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestNewValidatesSpec(t *testing.T) {
	r, err := role.FXTrend()
	require.NoError(t, err)
	o := &fakeOracle{}

	_, err = New(Spec{Name: "x", Role: r, Labels: FXLabels, Template: "no placeholder"}, o)
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = New(Spec{Name: "x", Role: r, Template: FXTrendTemplate}, o)
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = New(Spec{Name: "x", Labels: FXLabels, Template: FXTrendTemplate}, o)
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = New(Spec{Name: "x", Role: r, Labels: FXLabels, Template: FXTrendTemplate}, nil)
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestAnalyzeInjectsCapabilityContext(t *testing.T) {
	rates := &fakeCapability{name: "exchange_rates", info: "USD/INR 83.1200"}
	broken := &fakeCapability{name: "headlines", err: errors.New("scrape failed")}
	r, err := role.FXTrend(rates, broken)
	require.NoError(t, err)

	o := &fakeOracle{text: "Uncertain — mixed."}
	s, err := NewFXTrend(o, r)
	require.NoError(t, err)

	res, err := s.Analyze(context.Background(), "US to INDIA")
	require.NoError(t, err)
	assert.Equal(t, types.Uncertain, res.Label)

	require.Len(t, o.calls, 1)
	assert.Equal(t, "US to INDIA", rates.seen)
	assert.Contains(t, o.calls[0].system, "## exchange_rates\nUSD/INR 83.1200")
	assert.NotContains(t, o.calls[0].system, "## headlines")
	assert.NotContains(t, r.SystemPrompt(), "EXTRA INFORMATION")
}

func TestSynthesisPrompt(t *testing.T) {
	fx := types.StageResult{Stage: FXTrendName, RawText: "Favorable — steady.", Label: types.Favorable}
	sent := types.StageResult{Stage: SentimentName, RawText: "Positive — calm markets.", Label: types.Positive}

	want := "FX Trend Analysis:\nFavorable — steady.\n\nNews Sentiment Analysis:\nPositive — calm markets."
	if diff := cmp.Diff(want, SynthesisPrompt(fx, sent, "")); diff != "" {
		t.Errorf("prompt mismatch (-want +got):\n%s", diff)
	}

	withDirective := SynthesisPrompt(fx, sent, "The required recommendation is: Send Now.")
	assert.Equal(t, want+"\n\nThe required recommendation is: Send Now.", withDirective)
}

func TestSynthesizeEmbedsAnalysesVerbatim(t *testing.T) {
	o := &fakeOracle{text: "Great news! Send Now."}
	r, err := role.Synthesis()
	require.NoError(t, err)
	s, err := NewSynthesis(o, r)
	require.NoError(t, err)

	fx := types.StageResult{RawText: "Markets are mixed this week."}
	sent := types.StageResult{RawText: "Negative — inflation rising."}

	text, err := s.Synthesize(context.Background(), fx, sent, "")
	require.NoError(t, err)
	assert.Equal(t, "Great news! Send Now.", text)
	require.Len(t, o.calls, 1)
	assert.Contains(t, o.calls[0].prompt, "Markets are mixed this week.")
	assert.Contains(t, o.calls[0].prompt, "Negative — inflation rising.")
	assert.Contains(t, o.calls[0].system, "Smart Send Orchestrator")
}

func TestSynthesizeErrors(t *testing.T) {
	r, err := role.Synthesis()
	require.NoError(t, err)

	s, err := NewSynthesis(&fakeOracle{err: types.ErrOracleUnavailable}, r)
	require.NoError(t, err)
	_, err = s.Synthesize(context.Background(), types.StageResult{}, types.StageResult{}, "")
	assert.ErrorIs(t, err, types.ErrOracleUnavailable)

	s, err = NewSynthesis(&fakeOracle{text: ""}, r)
	require.NoError(t, err)
	_, err = s.Synthesize(context.Background(), types.StageResult{}, types.StageResult{}, "")
	assert.ErrorIs(t, err, types.ErrMalformedResponse)

	_, err = NewSynthesis(&fakeOracle{}, nil)
	assert.ErrorIs(t, err, ErrInvalidStage)
}
