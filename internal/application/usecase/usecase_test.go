package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/bibbank/riskscore/pkg/events"
)

// --- Mock implementations ---

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
	publishedEvents []events.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

type mockMetricsRecorder struct {
	mu       sync.Mutex
	tiers    map[string]int
	scores   []int
	rankings []int
}

func newMockMetricsRecorder() *mockMetricsRecorder {
	return &mockMetricsRecorder{tiers: make(map[string]int)}
}

func (m *mockMetricsRecorder) RecordScore(_ context.Context, tier string, value int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiers[tier]++
	m.scores = append(m.scores, value)
}

func (m *mockMetricsRecorder) RecordRanking(_ context.Context, entities int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankings = append(m.rankings, entities)
}
