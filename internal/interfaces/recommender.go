package interfaces

import (
	"context"

	"smart-send/internal/types"
)

type Recommender interface {
	Recommend(ctx context.Context, corridor types.Corridor) (*types.Recommendation, error)
}
