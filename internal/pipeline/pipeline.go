package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"smart-send/internal/interfaces"
	"smart-send/internal/logger"
	"smart-send/internal/policy"
	"smart-send/internal/types"
)

// ErrInvalidPipeline is returned when a Coordinator is wired without a stage.
var ErrInvalidPipeline = errors.New("invalid pipeline")

// Coordinator runs FX trend and sentiment, then synthesis once both have finished.
// It keeps no state between calls and is safe for concurrent use.
type Coordinator struct {
	fx        interfaces.Analyzer
	sentiment interfaces.Analyzer
	synth     interfaces.Synthesizer
	mode      policy.Mode
	fanOut    bool
}

var _ interfaces.Recommender = (*Coordinator)(nil)

type Option func(*Coordinator)

// WithMode selects advisory or enforced verdicts. Enforced is the default.
func WithMode(m policy.Mode) Option {
	return func(c *Coordinator) {
		c.mode = m
	}
}

// WithFanOut runs the two analysis stages concurrently when true (the default).
// When false FX trend runs first and sentiment is only started if it succeeded.
func WithFanOut(enabled bool) Option {
	return func(c *Coordinator) {
		c.fanOut = enabled
	}
}

// New builds a Coordinator running enforced verdicts with fan-out unless opts say otherwise.
func New(fx, sentiment interfaces.Analyzer, synth interfaces.Synthesizer, opts ...Option) (*Coordinator, error) {
	if fx == nil || sentiment == nil || synth == nil {
		return nil, fmt.Errorf("%w: fx, sentiment and synthesis stages are required", ErrInvalidPipeline)
	}
	c := &Coordinator{
		fx:        fx,
		sentiment: sentiment,
		synth:     synth,
		mode:      policy.ModeEnforced,
		fanOut:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Mode reports how verdicts reach the synthesis stage.
func (c *Coordinator) Mode() policy.Mode {
	return c.mode
}

// Recommend produces one recommendation for the corridor, or the first stage error.
// Synthesis is never invoked unless both analyses succeeded.
func (c *Coordinator) Recommend(ctx context.Context, corridor types.Corridor) (*types.Recommendation, error) {
	if !corridor.Valid() {
		return nil, fmt.Errorf("%w: corridor is empty", types.ErrInvalidInput)
	}

	fx, sentiment, err := c.analyze(ctx, corridor)
	if err != nil {
		return nil, err
	}

	verdict := policy.Decide(fx.Label, sentiment.Label)
	logger.Debug(ctx, "Analyses complete",
		"corridor", string(corridor),
		"fx_label", fx.Label.String(),
		"sentiment_label", sentiment.Label.String(),
		"verdict", string(verdict),
		"mode", string(c.mode),
	)

	text, err := c.synth.Synthesize(ctx, fx, sentiment, policy.DirectiveFor(c.mode, verdict))
	if err != nil {
		return nil, err
	}

	if c.mode == policy.ModeEnforced && !policy.Mentions(text, verdict) {
		logger.Warn(ctx, "Recommendation text does not state the required verdict",
			"corridor", string(corridor),
			"verdict", string(verdict),
		)
	}

	return &types.Recommendation{
		Corridor:  corridor,
		Text:      text,
		Verdict:   verdict,
		FX:        fx,
		Sentiment: sentiment,
	}, nil
}

func (c *Coordinator) analyze(ctx context.Context, corridor types.Corridor) (fx, sentiment types.StageResult, err error) {
	if !c.fanOut {
		if fx, err = c.fx.Analyze(ctx, corridor); err != nil {
			return fx, sentiment, err
		}
		sentiment, err = c.sentiment.Analyze(ctx, corridor)
		return fx, sentiment, err
	}

	// the first failure cancels the sibling through gctx
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := c.fx.Analyze(gctx, corridor)
		if err != nil {
			return err
		}
		fx = res
		return nil
	})
	g.Go(func() error {
		res, err := c.sentiment.Analyze(gctx, corridor)
		if err != nil {
			return err
		}
		sentiment = res
		return nil
	})
	err = g.Wait()
	return fx, sentiment, err
}
