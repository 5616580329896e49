package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/riskscore/internal/application/dto"
	"github.com/bibbank/riskscore/internal/domain/event"
	"github.com/bibbank/riskscore/internal/domain/port"
	"github.com/bibbank/riskscore/internal/domain/service"
	"github.com/bibbank/riskscore/internal/domain/valueobject"
)

var tracer = otel.Tracer("github.com/bibbank/riskscore/internal/application/usecase")

// ScoreEntity is the use case for scoring a single entity.
type ScoreEntity struct {
	scorer    service.Scorer
	publisher port.EventPublisher
	metrics   port.MetricsRecorder
	now       func() time.Time
}

// NewScoreEntity creates a new ScoreEntity use case.
func NewScoreEntity(
	scorer service.Scorer,
	publisher port.EventPublisher,
	metrics port.MetricsRecorder,
	now func() time.Time,
) *ScoreEntity {
	if now == nil {
		now = time.Now
	}
	return &ScoreEntity{
		scorer:    scorer,
		publisher: publisher,
		metrics:   metrics,
		now:       now,
	}
}

// Execute scores the record, records metrics and publishes a CriticalDetected
// event when the entity lands in the critical tier. Scoring itself cannot fail;
// the only error source is the publisher.
func (uc *ScoreEntity) Execute(ctx context.Context, req dto.ScoreEntityRequest) (dto.ScoreResponse, error) {
	ctx, span := tracer.Start(ctx, "ScoreEntity.Execute", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	// 1. Score via the domain service.
	entity := uc.scorer.ScoreEntity(req.Record, req.Related)

	span.SetAttributes(
		attribute.String("entity.id", entity.ID()),
		attribute.Int("score.value", entity.Score.Value),
		attribute.String("score.tier", entity.Score.Tier.String()),
	)

	// 2. Record telemetry.
	uc.metrics.RecordScore(ctx, entity.Score.Tier.String(), entity.Score.Value)

	// 3. Publish the alert event for critical entities.
	if entity.Score.Tier.Equal(valueobject.TierCritical) {
		evt := event.NewCriticalDetected(entity.ID(), entity.Score.Value, entity.Score.Factors, uc.now())
		if err := uc.publisher.Publish(ctx, evt); err != nil {
			span.RecordError(err)
			return dto.ScoreResponse{}, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	return dto.FromScoredEntity(entity), nil
}
