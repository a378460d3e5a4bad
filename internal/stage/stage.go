package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smart-send/internal/interfaces"
	"smart-send/internal/logger"
	"smart-send/internal/role"
	"smart-send/internal/types"
)

// ErrInvalidStage is returned when a stage is wired with an unusable Spec.
var ErrInvalidStage = errors.New("invalid stage")

const (
	FXTrendName   = "fx_trend"
	SentimentName = "sentiment"

	// corridorPlaceholder is replaced by the corridor in a stage template.
	corridorPlaceholder = "{corridor}"

	FXTrendTemplate   = "Analyze FX trend for corridor: {corridor}"
	SentimentTemplate = "Analyze recent news affecting this corridor: {corridor}"
)

// Spec declares one analysis stage.
type Spec struct {
	Name     string
	Role     *role.Config
	Labels   []types.Label
	Template string
	// ForbidCapabilities rejects roles that declare any external tool.
	ForbidCapabilities bool
}

// Stage sends one prompt per call to the oracle and extracts a label from the answer.
// It holds no mutable state and is safe for concurrent use.
type Stage struct {
	spec          Spec
	oracle        interfaces.Oracle
	lookupTimeout time.Duration
}

var _ interfaces.Analyzer = (*Stage)(nil)

type Option func(*Stage)

// WithLookupTimeout bounds each capability lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Stage) {
		s.lookupTimeout = d
	}
}

// New validates spec and builds a Stage.
func New(spec Spec, oracle interfaces.Oracle, opts ...Option) (*Stage, error) {
	switch {
	case strings.TrimSpace(spec.Name) == "":
		return nil, fmt.Errorf("%w: name is empty", ErrInvalidStage)
	case spec.Role == nil:
		return nil, fmt.Errorf("%w: %s has no role", ErrInvalidStage, spec.Name)
	case oracle == nil:
		return nil, fmt.Errorf("%w: %s has no oracle", ErrInvalidStage, spec.Name)
	case len(spec.Labels) == 0:
		return nil, fmt.Errorf("%w: %s declares no labels", ErrInvalidStage, spec.Name)
	case !strings.Contains(spec.Template, corridorPlaceholder):
		return nil, fmt.Errorf("%w: %s template lacks %s", ErrInvalidStage, spec.Name, corridorPlaceholder)
	case spec.ForbidCapabilities && spec.Role.HasCapabilities():
		return nil, fmt.Errorf("%w: %s role %q must not declare capabilities", ErrInvalidStage, spec.Name, spec.Role.Identity())
	}

	spec.Labels = append([]types.Label(nil), spec.Labels...)
	s := &Stage{
		spec:          spec,
		oracle:        oracle,
		lookupTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFXTrend builds the exchange-rate direction stage. Its role may carry capabilities.
func NewFXTrend(oracle interfaces.Oracle, r *role.Config, opts ...Option) (*Stage, error) {
	return New(Spec{
		Name:     FXTrendName,
		Role:     r,
		Labels:   FXLabels,
		Template: FXTrendTemplate,
	}, oracle, opts...)
}

// NewSentiment builds the macro/news stage. Its role must not carry capabilities.
func NewSentiment(oracle interfaces.Oracle, r *role.Config, opts ...Option) (*Stage, error) {
	return New(Spec{
		Name:               SentimentName,
		Role:               r,
		Labels:             SentimentLabels,
		Template:           SentimentTemplate,
		ForbidCapabilities: true,
	}, oracle, opts...)
}

func (s *Stage) Name() string {
	return s.spec.Name
}

// Prompt is the deterministic user prompt for a corridor.
func (s *Stage) Prompt(corridor types.Corridor) string {
	return strings.ReplaceAll(s.spec.Template, corridorPlaceholder, string(corridor))
}

// Analyze performs exactly one oracle call for the corridor.
func (s *Stage) Analyze(ctx context.Context, corridor types.Corridor) (types.StageResult, error) {
	if !corridor.Valid() {
		return types.StageResult{}, &types.StageError{
			Stage: s.spec.Name,
			Err:   fmt.Errorf("%w: corridor is empty", types.ErrInvalidInput),
		}
	}

	r := s.spec.Role
	if r.HasCapabilities() {
		r = r.WithContext(s.lookup(ctx, r, corridor)...)
	}

	text, err := s.oracle.Run(ctx, r, s.Prompt(corridor))
	if err != nil {
		return types.StageResult{}, &types.StageError{Stage: s.spec.Name, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return types.StageResult{}, &types.StageError{
			Stage: s.spec.Name,
			Err:   fmt.Errorf("%w: empty text", types.ErrMalformedResponse),
		}
	}

	label := ExtractLabel(text, s.spec.Labels)
	if !label.Present() {
		logger.Warn(ctx, "Stage answer did not start with a known label",
			"stage", s.spec.Name,
			"corridor", string(corridor),
		)
	}

	return types.StageResult{
		Stage:   s.spec.Name,
		RawText: text,
		Label:   label,
	}, nil
}
