package stage

import (
	"context"
	"fmt"
	"strings"

	"smart-send/internal/interfaces"
	"smart-send/internal/role"
	"smart-send/internal/types"
)

const SynthesisName = "synthesis"

// Synthesis turns the two analysis documents into customer-facing advice.
type Synthesis struct {
	role   *role.Config
	oracle interfaces.Oracle
}

var _ interfaces.Synthesizer = (*Synthesis)(nil)

func NewSynthesis(oracle interfaces.Oracle, r *role.Config) (*Synthesis, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: synthesis has no role", ErrInvalidStage)
	}
	if oracle == nil {
		return nil, fmt.Errorf("%w: synthesis has no oracle", ErrInvalidStage)
	}
	return &Synthesis{role: r, oracle: oracle}, nil
}

// SynthesisPrompt embeds both raw analysis texts verbatim, followed by the directive if any.
func SynthesisPrompt(fx, sentiment types.StageResult, directive string) string {
	var b strings.Builder
	b.WriteString("FX Trend Analysis:\n")
	b.WriteString(fx.RawText)
	b.WriteString("\n\nNews Sentiment Analysis:\n")
	b.WriteString(sentiment.RawText)
	if directive != "" {
		b.WriteString("\n\n")
		b.WriteString(directive)
	}
	return b.String()
}

// Synthesize performs exactly one oracle call and returns its text unmodified.
func (s *Synthesis) Synthesize(ctx context.Context, fx, sentiment types.StageResult, directive string) (string, error) {
	text, err := s.oracle.Run(ctx, s.role, SynthesisPrompt(fx, sentiment, directive))
	if err != nil {
		return "", &types.StageError{Stage: SynthesisName, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &types.StageError{
			Stage: SynthesisName,
			Err:   fmt.Errorf("%w: empty recommendation", types.ErrMalformedResponse),
		}
	}
	return text, nil
}
