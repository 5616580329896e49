package port

import (
	"context"
	"time"

	"github.com/bibbank/riskscore/pkg/events"
)

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the configured sink.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// MetricsRecorder defines the port for recording scoring telemetry.
type MetricsRecorder interface {
	// RecordScore records one scored entity.
	RecordScore(ctx context.Context, tier string, value int)

	// RecordRanking records one completed batch ranking.
	RecordRanking(ctx context.Context, entities int, elapsed time.Duration)
}
