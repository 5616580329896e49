package event

import (
	"time"

	"github.com/bibbank/riskscore/pkg/events"
)

const (
	// EventTypeCriticalDetected is emitted when an entity scores in the critical tier.
	EventTypeCriticalDetected = "score.critical.detected"

	// EventTypeRankingCompleted is emitted when a batch ranking finishes.
	EventTypeRankingCompleted = "score.ranking.completed"

	// AggregateTypeEntity names the scored subject in events.
	AggregateTypeEntity = "Entity"

	// AggregateTypeRanking names a batch ranking run in events.
	AggregateTypeRanking = "Ranking"
)

// CriticalDetected is published when an entity lands in the critical tier so
// that downstream consumers can alert on it.
type CriticalDetected struct {
	events.BaseEvent
	EntityID string   `json:"entity_id"`
	Factors  []string `json:"factors"`
	Score    int      `json:"score"`
}

// NewCriticalDetected creates a CriticalDetected event.
func NewCriticalDetected(entityID string, score int, factors []string, at time.Time) CriticalDetected {
	return CriticalDetected{
		BaseEvent: events.NewBaseEvent(EventTypeCriticalDetected, entityID, AggregateTypeEntity, at),
		EntityID:  entityID,
		Score:     score,
		Factors:   factors,
	}
}

// RankingCompleted is published once per batch ranking with its rollup.
type RankingCompleted struct {
	events.BaseEvent
	TierCounts   map[string]int `json:"tier_counts"`
	RunID        string         `json:"run_id"`
	Total        string         `json:"total"`
	AverageScore float64        `json:"average_score"`
	Count        int            `json:"count"`
	Returned     int            `json:"returned"`
}

// NewRankingCompleted creates a RankingCompleted event for the run.
func NewRankingCompleted(
	runID string,
	count, returned int,
	averageScore float64,
	total string,
	tierCounts map[string]int,
	at time.Time,
) RankingCompleted {
	return RankingCompleted{
		BaseEvent:    events.NewBaseEvent(EventTypeRankingCompleted, runID, AggregateTypeRanking, at),
		RunID:        runID,
		Count:        count,
		Returned:     returned,
		AverageScore: averageScore,
		Total:        total,
		TierCounts:   tierCounts,
	}
}
