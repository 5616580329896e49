package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibbank/riskscore/pkg/events"
)

// LogPublisher implements port.EventPublisher by writing events to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
	topic  string
}

// NewLogPublisher creates a new log-backed event publisher.
func NewLogPublisher(topic string, logger *slog.Logger) *LogPublisher {
	return &LogPublisher{
		topic:  topic,
		logger: logger,
	}
}

// Publish logs each event at info level and its JSON payload at debug level.
func (p *LogPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.InfoContext(ctx, "publishing event",
			slog.String("event_type", evt.EventType()),
			slog.String("event_id", evt.EventID().String()),
			slog.String("aggregate_type", evt.AggregateType()),
			slog.String("aggregate_id", evt.AggregateID()),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)

		p.logger.DebugContext(ctx, "event payload",
			slog.String("event_type", evt.EventType()),
			slog.String("payload", string(payload)),
		)
	}

	return nil
}
