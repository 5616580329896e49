package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/riskscore/internal/domain/valueobject"
)

// Score is the result of evaluating one entity. It is always recomputed from
// the current record snapshot and never stored on its own.
type Score struct {
	// Derived holds deterministic functions of Value, keyed by name
	// (for example "churnProbability"). Nil when none are configured.
	Derived map[string]float64
	Tier    valueobject.Tier
	// Factors lists the label of every triggered signal in evaluation order,
	// or a single fallback label when nothing triggered.
	Factors []string
	// Value is the clamped composite score in [0,100].
	Value int
}

// ScoredEntity ties a record to the values extracted from it and its score.
type ScoredEntity struct {
	Record Record
	Input  SignalInput
	Score  Score
}

// ID returns the entity id extracted from the record.
func (e ScoredEntity) ID() string {
	return e.Input.EntityID
}

// RankedEntity is a ScoredEntity with its 1-based position in a ranking.
type RankedEntity struct {
	ScoredEntity
	Rank int
}

// Summary aggregates a filtered set of scored entities for dashboard rollups.
type Summary struct {
	// TierCounts holds only tiers that occur in the set; callers display 0
	// for absent keys.
	TierCounts   map[string]int
	Total        decimal.Decimal
	AverageScore float64
	Count        int
}

// Ranking is the ranked, optionally truncated view plus its summary.
type Ranking struct {
	Ranked  []RankedEntity
	Summary Summary
}
