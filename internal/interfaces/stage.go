package interfaces

import (
	"context"

	"smart-send/internal/types"
)

type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, corridor types.Corridor) (types.StageResult, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, fx, sentiment types.StageResult, directive string) (string, error)
}
