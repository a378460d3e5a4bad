package pipelineobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"smart-send/internal/interfaces"
	"smart-send/internal/logger"
	"smart-send/internal/trace"
	"smart-send/internal/types"
)

type observableRecommender struct {
	next interfaces.Recommender
}

var _ interfaces.Recommender = (*observableRecommender)(nil)

type runIDKey struct{}

// ContextWithRunID makes Wrap log and trace the run under id instead of a fresh one.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run ID carried by ctx, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// Wrap adds a run ID, a span and start/finish logs around next.
func Wrap(next interfaces.Recommender) interfaces.Recommender {
	return &observableRecommender{next: next}
}

func (o *observableRecommender) Recommend(ctx context.Context, corridor types.Corridor) (*types.Recommendation, error) {
	runID, ok := RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = ContextWithRunID(ctx, runID)
	}

	ctx, span := trace.StartSpan(ctx, "pipeline.Recommend")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("corridor", string(corridor)),
	)

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting recommendation",
		"run_id", runID,
		"corridor", string(corridor),
	)

	rec, err := o.next.Recommend(ctx, corridor)
	if err != nil {
		trace.RecordError(ctx, err)
		logger.ErrorWithErrSkip(ctx, 1, "Recommendation failed", err,
			"run_id", runID,
			"corridor", string(corridor),
			"error_kind", types.Kind(err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("verdict", string(rec.Verdict)))
	logger.Recommendation(ctx, string(corridor), string(rec.Verdict), rec.FX.Label.String(), rec.Sentiment.Label.String(),
		"run_id", runID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return rec, nil
}
