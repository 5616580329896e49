package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/bibbank/riskscore"

// Recorder implements port.MetricsRecorder with OpenTelemetry instruments.
type Recorder struct {
	scored      metric.Int64Counter
	scoreValue  metric.Int64Histogram
	rankings    metric.Int64Counter
	rankLatency metric.Float64Histogram
}

// NewRecorder creates the scoring instruments on the given MeterProvider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	scored, err := meter.Int64Counter("riskscore_entities_scored",
		metric.WithDescription("Number of entities scored, by tier."))
	if err != nil {
		return nil, fmt.Errorf("failed to create scored counter: %w", err)
	}

	scoreValue, err := meter.Int64Histogram("riskscore_score_value",
		metric.WithDescription("Distribution of composite score values."),
		metric.WithExplicitBucketBoundaries(0, 20, 40, 60, 80, 100))
	if err != nil {
		return nil, fmt.Errorf("failed to create score histogram: %w", err)
	}

	rankings, err := meter.Int64Counter("riskscore_rankings",
		metric.WithDescription("Number of batch rankings completed."))
	if err != nil {
		return nil, fmt.Errorf("failed to create rankings counter: %w", err)
	}

	rankLatency, err := meter.Float64Histogram("riskscore_ranking_duration_seconds",
		metric.WithDescription("Time spent scoring and ranking a batch."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking histogram: %w", err)
	}

	return &Recorder{
		scored:      scored,
		scoreValue:  scoreValue,
		rankings:    rankings,
		rankLatency: rankLatency,
	}, nil
}

// RecordScore records one scored entity.
func (r *Recorder) RecordScore(ctx context.Context, tier string, value int) {
	attrs := metric.WithAttributes(attribute.String("tier", tier))
	r.scored.Add(ctx, 1, attrs)
	r.scoreValue.Record(ctx, int64(value), attrs)
}

// RecordRanking records one completed batch ranking.
func (r *Recorder) RecordRanking(ctx context.Context, entities int, elapsed time.Duration) {
	r.rankings.Add(ctx, 1)
	r.rankLatency.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.Int("entities", entities)))
}
