package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/bibbank/riskscore/internal/domain/model"
)

// MaxScore is the upper bound of a composite score.
const MaxScore = 100

// Scorer defines the interface for scoring strategies consumed by the use cases.
type Scorer interface {
	ScoreEntity(record model.Record, related []model.Record) model.ScoredEntity
}

// CompositeScorer sums the weights of triggered signals, clamps at MaxScore and
// classifies the result. It is immutable after construction.
type CompositeScorer struct {
	extractor      *Extractor
	classifier     *Classifier
	signals        []Signal
	derived        []DerivedScalar
	fallbackFactor string
}

// NewCompositeScorer validates cfg and builds a scorer. A nil clock defaults to time.Now.
func NewCompositeScorer(cfg ScoringConfig, now func() time.Time) (*CompositeScorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(cfg.Thresholds)
	if err != nil {
		return nil, err
	}

	fallback := cfg.FallbackFactor
	if fallback == "" {
		fallback = FallbackFactor
	}

	return &CompositeScorer{
		extractor:      NewExtractor(cfg.Extractor, now),
		classifier:     classifier,
		signals:        slices.Clone(cfg.Signals),
		derived:        slices.Clone(cfg.Derived),
		fallbackFactor: fallback,
	}, nil
}

// MustCompositeScorer is NewCompositeScorer that panics on an invalid config.
// Intended for package-level defaults and tests.
func MustCompositeScorer(cfg ScoringConfig, now func() time.Time) *CompositeScorer {
	s, err := NewCompositeScorer(cfg, now)
	if err != nil {
		panic(fmt.Sprintf("scoring config: %v", err))
	}
	return s
}

// Score extracts signals from record and related and returns its score.
func (s *CompositeScorer) Score(record model.Record, related []model.Record) model.Score {
	return s.Evaluate(s.extractor.Extract(record, related))
}

// ScoreEntity is Score keeping the record and extracted input alongside.
func (s *CompositeScorer) ScoreEntity(record model.Record, related []model.Record) model.ScoredEntity {
	in := s.extractor.Extract(record, related)
	return model.ScoredEntity{
		Record: record,
		Input:  in,
		Score:  s.Evaluate(in),
	}
}

// ScoreAll scores every record against the same related set, preserving order.
func (s *CompositeScorer) ScoreAll(records []model.Record, related []model.Record) []model.ScoredEntity {
	out := make([]model.ScoredEntity, 0, len(records))
	for _, rec := range records {
		out = append(out, s.ScoreEntity(rec, related))
	}
	return out
}

// Evaluate runs the signals in configured order over an already extracted input.
// Weights may sum above MaxScore; the total is clamped, not normalised.
func (s *CompositeScorer) Evaluate(in model.SignalInput) model.Score {
	value := 0
	factors := make([]string, 0, len(s.signals))

	for _, sig := range s.signals {
		triggered, label := sig.Evaluate(in)
		if !triggered {
			continue
		}
		value += sig.Weight
		if label == "" {
			label = sig.Name
		}
		factors = append(factors, label)
	}

	value = clamp(value, 0, MaxScore)

	if len(factors) == 0 {
		factors = append(factors, s.fallbackFactor)
	}

	score := model.Score{
		Value:   value,
		Factors: factors,
		Tier:    s.classifier.Classify(value),
	}

	if len(s.derived) > 0 {
		score.Derived = make(map[string]float64, len(s.derived))
		for _, d := range s.derived {
			score.Derived[d.Name] = d.Apply(value)
		}
	}

	return score
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
