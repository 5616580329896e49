package events_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/riskscore/pkg/events"
)

func TestNewBaseEvent(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	event := events.NewBaseEvent("score.critical.detected", "cust-1", "Entity", at)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "score.critical.detected", event.EventType())
	assert.Equal(t, "cust-1", event.AggregateID())
	assert.Equal(t, "Entity", event.AggregateType())
	assert.True(t, at.Equal(event.OccurredAt()))
	assert.Equal(t, time.UTC, event.OccurredAt().Location())
}

func TestNewBaseEvent_ZeroTimeUsesNow(t *testing.T) {
	before := time.Now().UTC()
	event := events.NewBaseEvent("e", "a", "Entity", time.Time{})
	after := time.Now().UTC()

	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := events.NewBaseEvent("e", "a", "Entity", time.Time{})
	b := events.NewBaseEvent("e", "a", "Entity", time.Time{})
	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ events.DomainEvent = events.BaseEvent{}
}

func TestEventCollector_Record(t *testing.T) {
	collector := &events.EventCollector{}

	collector.Record(events.NewBaseEvent("Event1", "agg", "Entity", time.Time{}))
	collector.Record(events.NewBaseEvent("Event2", "agg", "Entity", time.Time{}))

	collected := collector.Events()
	require.Len(t, collected, 2)
	assert.Equal(t, 2, collector.Len())
	assert.Equal(t, "Event1", collected[0].EventType())
	assert.Equal(t, "Event2", collected[1].EventType())
}

func TestEventCollector_EventsDoesNotClear(t *testing.T) {
	collector := &events.EventCollector{}
	collector.Record(events.NewBaseEvent("Event1", "agg", "Entity", time.Time{}))

	_ = collector.Events()

	assert.Len(t, collector.Events(), 1)
}

func TestEventCollector_ClearEvents(t *testing.T) {
	collector := &events.EventCollector{}
	collector.Record(events.NewBaseEvent("Event1", "agg", "Entity", time.Time{}))
	collector.Record(events.NewBaseEvent("Event2", "agg", "Entity", time.Time{}))

	cleared := collector.ClearEvents()

	assert.Len(t, cleared, 2)
	assert.Empty(t, collector.Events())
}

func TestEventCollector_ClearEventsOnEmpty(t *testing.T) {
	collector := &events.EventCollector{}
	assert.Nil(t, collector.ClearEvents())
}
