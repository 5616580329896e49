package service

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/riskscore/internal/domain/valueobject"
)

// FallbackFactor is reported when no signal triggers.
const FallbackFactor = "General risk factors"

// DerivedChurnProbability is the name of the default derived scalar.
const DerivedChurnProbability = "churnProbability"

// ErrInvalidConfig is returned when a ScoringConfig fails validation.
var ErrInvalidConfig = errors.New("invalid scoring config")

// DerivedScalar is a secondary value computed as min(score*Multiplier, Ceiling).
type DerivedScalar struct {
	Name       string
	Multiplier float64
	Ceiling    float64
}

// Apply computes the scalar for a composite score.
func (d DerivedScalar) Apply(value int) float64 {
	return math.Min(float64(value)*d.Multiplier, d.Ceiling)
}

// ScoringConfig parameterises the engine: which fields to read, which signals
// to evaluate and in what order, and where the tier cut points lie.
type ScoringConfig struct {
	FallbackFactor string
	Signals        []Signal
	Derived        []DerivedScalar
	Extractor      ExtractorConfig
	Thresholds     valueobject.Thresholds
}

// Validate reports every problem in the config at once.
func (c ScoringConfig) Validate() error {
	return joinInvalid(c.problems())
}

func (c ScoringConfig) problems() []error {
	var errs []error

	seen := make(map[string]bool, len(c.Signals))
	for i, s := range c.Signals {
		switch {
		case strings.TrimSpace(s.Name) == "":
			errs = append(errs, fmt.Errorf("signal %d: name is required", i))
		case seen[s.Name]:
			errs = append(errs, fmt.Errorf("signal %q: duplicate name", s.Name))
		}
		seen[s.Name] = true

		if s.Weight <= 0 {
			errs = append(errs, fmt.Errorf("signal %q: weight must be positive, got %d", s.Name, s.Weight))
		}
		if s.Evaluate == nil {
			errs = append(errs, fmt.Errorf("signal %q: evaluator is required", s.Name))
		}
	}

	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}

	for _, d := range c.Derived {
		if d.Name == "" {
			errs = append(errs, errors.New("derived scalar: name is required"))
		}
		if !finite(d.Multiplier) || !finite(d.Ceiling) {
			errs = append(errs, fmt.Errorf("derived scalar %q: multiplier and ceiling must be finite", d.Name))
		} else if d.Multiplier < 0 || d.Ceiling < 0 {
			errs = append(errs, fmt.Errorf("derived scalar %q: multiplier and ceiling must not be negative", d.Name))
		}
	}

	return errs
}

func joinInvalid(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Tunables are the plain-data knobs of the default signal set. They can be
// loaded from environment or a YAML file and applied with DefaultConfigWith.
type Tunables struct {
	LowRevenueLimit   decimal.Decimal
	Weights           map[string]int
	RiskyStatuses     []string
	Thresholds        valueobject.Thresholds
	InactivityDays    int
	PaymentWindowDays int
	ChurnMultiplier   float64
	ChurnCeiling      float64
}

// DefaultTunables returns the constants observed across the dashboard widgets.
// The churn multiplier and ceiling have no stated rationale and are kept
// configurable until product confirms them.
func DefaultTunables() Tunables {
	return Tunables{
		InactivityDays:    30,
		PaymentWindowDays: 30,
		LowRevenueLimit:   decimal.NewFromInt(1000),
		RiskyStatuses:     []string{"suspended", "inactive", "cancelled", "churned", "past_due", "delinquent"},
		Weights: map[string]int{
			SignalInactivity:    40,
			SignalPaymentLapse:  30,
			SignalAccountStatus: 35,
			SignalLowRevenue:    15,
		},
		Thresholds:      valueobject.DefaultThresholds,
		ChurnMultiplier: 0.8,
		ChurnCeiling:    95,
	}
}

func (t Tunables) problems() []error {
	var errs []error
	if t.InactivityDays < 0 {
		errs = append(errs, fmt.Errorf("inactivity days must not be negative, got %d", t.InactivityDays))
	}
	if t.PaymentWindowDays <= 0 {
		errs = append(errs, fmt.Errorf("payment window days must be positive, got %d", t.PaymentWindowDays))
	}
	if t.LowRevenueLimit.IsNegative() {
		errs = append(errs, fmt.Errorf("low revenue limit must not be negative, got %s", t.LowRevenueLimit))
	}
	return errs
}

// DefaultConfig returns the engine configuration built from DefaultTunables.
func DefaultConfig() ScoringConfig {
	cfg, err := DefaultConfigWith(DefaultTunables())
	if err != nil {
		panic(err)
	}
	return cfg
}

// DefaultConfigWith builds the default signal set from t. Weights missing from
// t fall back to the defaults; unknown weight names are rejected.
func DefaultConfigWith(t Tunables) (ScoringConfig, error) {
	defaults := DefaultTunables()
	errs := t.problems()

	weights := make(map[string]int, len(defaults.Weights))
	for name, w := range defaults.Weights {
		weights[name] = w
	}
	for _, name := range slices.Sorted(maps.Keys(t.Weights)) {
		if _, ok := weights[name]; !ok {
			errs = append(errs, fmt.Errorf("unknown signal %q", name))
			continue
		}
		weights[name] = t.Weights[name]
	}

	statuses := make([]string, 0, len(t.RiskyStatuses))
	for _, s := range t.RiskyStatuses {
		statuses = append(statuses, strings.ToLower(strings.TrimSpace(s)))
	}

	extractor := DefaultExtractorConfig()
	extractor.RecentWindow = time.Duration(t.PaymentWindowDays) * hoursPerDay * time.Hour

	cfg := ScoringConfig{
		Extractor: extractor,
		Signals: []Signal{
			InactivitySignal(weights[SignalInactivity], t.InactivityDays),
			PaymentLapseSignal(weights[SignalPaymentLapse], t.PaymentWindowDays),
			AccountStatusSignal(weights[SignalAccountStatus], statuses),
			LowRevenueSignal(weights[SignalLowRevenue], t.LowRevenueLimit),
		},
		Thresholds:     t.Thresholds,
		FallbackFactor: FallbackFactor,
		Derived: []DerivedScalar{
			{Name: DerivedChurnProbability, Multiplier: t.ChurnMultiplier, Ceiling: t.ChurnCeiling},
		},
	}

	if err := joinInvalid(append(errs, cfg.problems()...)); err != nil {
		return ScoringConfig{}, err
	}
	return cfg, nil
}
