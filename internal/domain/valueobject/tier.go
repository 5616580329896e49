package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTier is returned when a tier label cannot be parsed.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrInvalidThresholds is returned when tier cut points are not strictly descending.
	ErrInvalidThresholds = errors.New("invalid tier thresholds")
)

// Tier is an immutable value object representing the risk classification of a score.
// Tiers are ordered low < medium < high < critical.
type Tier struct {
	value string
	rank  int
}

var (
	TierLow      = Tier{value: "low", rank: 0}
	TierMedium   = Tier{value: "medium", rank: 1}
	TierHigh     = Tier{value: "high", rank: 2}
	TierCritical = Tier{value: "critical", rank: 3}
)

// AllTiers returns every tier in ascending order.
func AllTiers() []Tier {
	return []Tier{TierLow, TierMedium, TierHigh, TierCritical}
}

// TierFromString reconstructs a Tier from its label. Matching is case-insensitive.
func TierFromString(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return TierLow, nil
	case "medium":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	case "critical":
		return TierCritical, nil
	default:
		return Tier{}, fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
}

// String returns the tier label.
func (t Tier) String() string {
	return t.value
}

// Rank returns the ordinal position of the tier: low=0, medium=1, high=2, critical=3.
func (t Tier) Rank() int {
	return t.rank
}

// IsZero returns true if the Tier has not been set.
func (t Tier) IsZero() bool {
	return t.value == ""
}

// Equal checks equality with another Tier.
func (t Tier) Equal(other Tier) bool {
	return t.value == other.value
}

// MarshalText encodes the tier as its label.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.value), nil
}

// UnmarshalText decodes a tier label.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := TierFromString(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Thresholds holds the inclusive lower bound of each tier above low.
type Thresholds struct {
	Critical int `yaml:"critical" json:"critical"`
	High     int `yaml:"high" json:"high"`
	Medium   int `yaml:"medium" json:"medium"`
}

// DefaultThresholds are the canonical 80/60/40 cut points.
var DefaultThresholds = Thresholds{Critical: 80, High: 60, Medium: 40}

// Validate checks that the cut points are strictly descending and within 0-100.
func (th Thresholds) Validate() error {
	if th.Medium < 0 || th.Critical > 100 {
		return fmt.Errorf("%w: cut points must lie within 0-100, got %d/%d/%d",
			ErrInvalidThresholds, th.Critical, th.High, th.Medium)
	}
	if th.Critical <= th.High || th.High <= th.Medium {
		return fmt.Errorf("%w: cut points must be strictly descending, got %d/%d/%d",
			ErrInvalidThresholds, th.Critical, th.High, th.Medium)
	}
	return nil
}

// TierFromScore derives the Tier for a score, checking the highest cut point first.
func (th Thresholds) TierFromScore(score int) Tier {
	switch {
	case score >= th.Critical:
		return TierCritical
	case score >= th.High:
		return TierHigh
	case score >= th.Medium:
		return TierMedium
	default:
		return TierLow
	}
}

// TierFromScore derives the Tier for a score using DefaultThresholds.
func TierFromScore(score int) Tier {
	return DefaultThresholds.TierFromScore(score)
}
