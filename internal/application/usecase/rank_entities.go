package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/riskscore/internal/application/dto"
	"github.com/bibbank/riskscore/internal/domain/event"
	"github.com/bibbank/riskscore/internal/domain/model"
	"github.com/bibbank/riskscore/internal/domain/port"
	"github.com/bibbank/riskscore/internal/domain/service"
	"github.com/bibbank/riskscore/internal/domain/valueobject"
	"github.com/bibbank/riskscore/pkg/events"
)

// TotalFieldRevenue selects the revenue extracted from related records.
const TotalFieldRevenue = "revenue"

// RankEntities is the use case for scoring a collection and producing the
// ranked list and summary shown on dashboards.
type RankEntities struct {
	scorer    service.Scorer
	publisher port.EventPublisher
	metrics   port.MetricsRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewRankEntities creates a new RankEntities use case.
func NewRankEntities(
	scorer service.Scorer,
	publisher port.EventPublisher,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
	now func() time.Time,
) *RankEntities {
	if now == nil {
		now = time.Now
	}
	return &RankEntities{
		scorer:    scorer,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       now,
	}
}

// Execute scores every record against the related set, ranks and summarises
// them, and publishes one CriticalDetected event per critical entity plus a
// RankingCompleted event for the run.
func (uc *RankEntities) Execute(ctx context.Context, req dto.RankRequest) (dto.RankResponse, error) {
	ctx, span := tracer.Start(ctx, "RankEntities.Execute", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	started := uc.now()
	runID := uuid.New().String()

	// 1. Score every entity.
	collector := &events.EventCollector{}
	scored := make([]model.ScoredEntity, 0, len(req.Records))
	for _, rec := range req.Records {
		entity := uc.scorer.ScoreEntity(rec, req.Related)
		scored = append(scored, entity)

		uc.metrics.RecordScore(ctx, entity.Score.Tier.String(), entity.Score.Value)
		if entity.Score.Tier.Equal(valueobject.TierCritical) {
			collector.Record(event.NewCriticalDetected(entity.ID(), entity.Score.Value, entity.Score.Factors, started))
		}
	}

	// 2. Rank and summarise.
	ranking := service.RankAndSummarize(scored, service.RankOptions{
		MinScore: req.MinScore,
		TopN:     req.TopN,
		Total:    totalFunc(req.TotalField),
	})

	elapsed := uc.now().Sub(started)
	uc.metrics.RecordRanking(ctx, len(scored), elapsed)

	span.SetAttributes(
		attribute.String("ranking.run_id", runID),
		attribute.Int("ranking.input", len(scored)),
		attribute.Int("ranking.count", ranking.Summary.Count),
		attribute.Int("ranking.returned", len(ranking.Ranked)),
	)

	uc.logger.Info("ranking completed",
		"run_id", runID,
		"input", len(scored),
		"count", ranking.Summary.Count,
		"returned", len(ranking.Ranked),
		"average_score", ranking.Summary.AverageScore,
		"critical", ranking.Summary.TierCounts[valueobject.TierCritical.String()],
		"elapsed", elapsed,
	)

	collector.Record(event.NewRankingCompleted(
		runID,
		ranking.Summary.Count,
		len(ranking.Ranked),
		ranking.Summary.AverageScore,
		ranking.Summary.Total.String(),
		ranking.Summary.TierCounts,
		uc.now(),
	))

	// 3. Publish domain events.
	if err := publishAll(ctx, uc.publisher, collector); err != nil {
		span.RecordError(err)
		return dto.RankResponse{}, err
	}

	return dto.FromRanking(runID, ranking), nil
}

func totalFunc(field string) service.TotalFunc {
	field = strings.TrimSpace(field)
	if field == "" || strings.EqualFold(field, TotalFieldRevenue) {
		return service.TotalRevenue
	}
	return service.TotalField(field)
}

func publishAll(ctx context.Context, publisher port.EventPublisher, collector *events.EventCollector) error {
	if collector.Len() == 0 {
		return nil
	}
	if err := publisher.Publish(ctx, collector.ClearEvents()...); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}
	return nil
}
