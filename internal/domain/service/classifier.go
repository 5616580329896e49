package service

import (
	"fmt"

	"github.com/bibbank/riskscore/internal/domain/valueobject"
)

// Classifier maps composite scores to tiers using fixed inclusive lower bounds.
type Classifier struct {
	thresholds valueobject.Thresholds
}

// NewClassifier validates the thresholds once so Classify cannot fail.
func NewClassifier(th valueobject.Thresholds) (*Classifier, error) {
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}
	return &Classifier{thresholds: th}, nil
}

// Classify returns the tier for value, highest cut point first.
func (c *Classifier) Classify(value int) valueobject.Tier {
	return c.thresholds.TierFromScore(value)
}

// Thresholds returns the cut points in use.
func (c *Classifier) Thresholds() valueobject.Thresholds {
	return c.thresholds
}
