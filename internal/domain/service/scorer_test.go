package service_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/riskscore/internal/domain/model"
	"github.com/bibbank/riskscore/internal/domain/service"
	"github.com/bibbank/riskscore/internal/domain/valueobject"
	"github.com/bibbank/riskscore/pkg/testutil"
)

func newScorer(t *testing.T) *service.CompositeScorer {
	t.Helper()
	scorer, err := service.NewCompositeScorer(service.DefaultConfig(), testutil.Clock())
	require.NoError(t, err)
	return scorer
}

func TestCompositeScorer_AllSignalsClampedToCritical(t *testing.T) {
	scorer := newScorer(t)

	// Three historical payments, none in the last 30 days, $500 total.
	related := []model.Record{
		testutil.Payment("c1", 200, 40),
		testutil.Payment("c1", 150, 70),
		testutil.Payment("c1", 150, 100),
	}

	score := scorer.Score(testutil.Customer("c1", "suspended", 45), related)

	// inactivity 40 + paymentLapse 30 + accountStatus 35 + lowRevenue 15 = 120 -> 100
	assert.Equal(t, 100, score.Value)
	assert.Equal(t, valueobject.TierCritical, score.Tier)
	assert.Equal(t, []string{
		"Inactive for 45 days",
		"No payments in the last 30 days",
		"Account status: suspended",
		"Low lifetime revenue",
	}, score.Factors)
	assert.InDelta(t, 80.0, score.Derived[service.DerivedChurnProbability], 1e-9)
}

func TestCompositeScorer_NoSignalsUsesFallback(t *testing.T) {
	scorer := newScorer(t)

	related := []model.Record{
		testutil.Payment("c1", 4000, 3),
		testutil.Payment("c1", 6000, 40),
	}

	score := scorer.Score(testutil.Customer("c1", "active", 1), related)

	assert.Equal(t, 0, score.Value)
	assert.Equal(t, valueobject.TierLow, score.Tier)
	assert.Equal(t, []string{service.FallbackFactor}, score.Factors)
	assert.Zero(t, score.Derived[service.DerivedChurnProbability])
}

func TestCompositeScorer_EmptyRecordIsNeutral(t *testing.T) {
	scorer := newScorer(t)

	score := scorer.Score(model.Record{}, nil)

	assert.Equal(t, 0, score.Value)
	assert.Equal(t, []string{service.FallbackFactor}, score.Factors)
	testutil.AssertScoreInvariants(t, score)
}

func TestCompositeScorer_SingleSignals(t *testing.T) {
	tests := []struct {
		name     string
		record   model.Record
		related  []model.Record
		expected int
		tier     valueobject.Tier
		factor   string
	}{
		{
			name:     "inactivity only",
			record:   testutil.Customer("c1", "active", 31),
			expected: 40,
			tier:     valueobject.TierMedium,
			factor:   "Inactive for 31 days",
		},
		{
			name:     "30 days is not inactive",
			record:   testutil.Customer("c1", "active", 30),
			expected: 0,
			tier:     valueobject.TierLow,
			factor:   service.FallbackFactor,
		},
		{
			name:     "payment lapse only",
			record:   testutil.Customer("c1", "active", 1),
			related:  []model.Record{testutil.Payment("c1", 5000, 45)},
			expected: 30,
			tier:     valueobject.TierLow,
			factor:   "No payments in the last 30 days",
		},
		{
			name:     "account status only",
			record:   testutil.Customer("c1", "Past_Due", 1),
			expected: 35,
			tier:     valueobject.TierLow,
			factor:   "Account status: past_due",
		},
		{
			name:     "low revenue only",
			record:   testutil.Customer("c1", "active", 1),
			related:  []model.Record{testutil.Payment("c1", 999.99, 2)},
			expected: 15,
			tier:     valueobject.TierLow,
			factor:   "Low lifetime revenue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := newScorer(t).Score(tt.record, tt.related)

			assert.Equal(t, tt.expected, score.Value)
			assert.Equal(t, tt.tier, score.Tier)
			assert.Equal(t, []string{tt.factor}, score.Factors)
		})
	}
}

func TestCompositeScorer_TwoSignalsReachHigh(t *testing.T) {
	score := newScorer(t).Score(testutil.Customer("c1", "churned", 60), nil)

	// inactivity 40 + accountStatus 35 = 75
	assert.Equal(t, 75, score.Value)
	assert.Equal(t, valueobject.TierHigh, score.Tier)
	assert.Equal(t, []string{"Inactive for 60 days", "Account status: churned"}, score.Factors)
}

func TestCompositeScorer_ClampInvariant(t *testing.T) {
	always := func(model.SignalInput) (bool, string) { return true, "" }

	cfg := service.DefaultConfig()
	cfg.Signals = []service.Signal{
		{Name: "a", Weight: 90, Evaluate: always},
		{Name: "b", Weight: 90, Evaluate: always},
		{Name: "c", Weight: 90, Evaluate: always},
	}
	scorer, err := service.NewCompositeScorer(cfg, testutil.Clock())
	require.NoError(t, err)

	score := scorer.Score(model.Record{"id": "x"}, nil)

	assert.Equal(t, 100, score.Value)
	assert.Equal(t, []string{"a", "b", "c"}, score.Factors, "empty labels fall back to the signal name")
	testutil.AssertScoreInvariants(t, score)
}

func TestCompositeScorer_DerivedScalarCeiling(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.Derived = []service.DerivedScalar{{Name: "p", Multiplier: 1.5, Ceiling: 95}}
	scorer, err := service.NewCompositeScorer(cfg, testutil.Clock())
	require.NoError(t, err)

	score := scorer.Score(testutil.Customer("c1", "suspended", 45), nil)

	// 75 * 1.5 = 112.5 -> capped at 95
	assert.Equal(t, 75, score.Value)
	assert.InDelta(t, 95.0, score.Derived["p"], 1e-9)
}

func TestCompositeScorer_NoDerivedScalars(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.Derived = nil
	scorer, err := service.NewCompositeScorer(cfg, testutil.Clock())
	require.NoError(t, err)

	assert.Nil(t, scorer.Score(model.Record{}, nil).Derived)
}

func TestCompositeScorer_CustomThresholds(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.Thresholds = valueobject.Thresholds{Critical: 95, High: 70, Medium: 30}
	scorer, err := service.NewCompositeScorer(cfg, testutil.Clock())
	require.NoError(t, err)

	score := scorer.Score(testutil.Customer("c1", "suspended", 45), nil)

	assert.Equal(t, 75, score.Value)
	assert.Equal(t, valueobject.TierHigh, score.Tier)
}

func TestCompositeScorer_ScoreEntityKeepsInput(t *testing.T) {
	rec := testutil.Customer("c9", "active", 2)

	entity := newScorer(t).ScoreEntity(rec, nil)

	assert.Equal(t, "c9", entity.ID())
	assert.Equal(t, rec, entity.Record)
	assert.Equal(t, 2, entity.Input.DaysSinceActivity)
}

func TestCompositeScorer_ScoreAllPreservesOrder(t *testing.T) {
	records := []model.Record{
		testutil.Customer("a", "active", 1),
		testutil.Customer("b", "suspended", 90),
		testutil.Customer("c", "active", 40),
	}

	entities := newScorer(t).ScoreAll(records, nil)

	require.Len(t, entities, 3)
	assert.Equal(t, "a", entities[0].ID())
	assert.Equal(t, "b", entities[1].ID())
	assert.Equal(t, "c", entities[2].ID())
	for _, e := range entities {
		testutil.AssertScoreInvariants(t, e.Score)
	}
}

func TestCompositeScorer_InvalidConfig(t *testing.T) {
	cfg := service.DefaultConfig()
	cfg.Signals[0].Weight = -5

	_, err := service.NewCompositeScorer(cfg, nil)

	require.ErrorIs(t, err, service.ErrInvalidConfig)
	assert.Panics(t, func() { service.MustCompositeScorer(cfg, nil) })
}

func TestCompositeScorer_ImplementsScorer(t *testing.T) {
	var _ service.Scorer = newScorer(t)
}

func TestCompositeScorer_MalformedAmountsAreNeutral(t *testing.T) {
	scorer := newScorer(t)

	tests := []struct {
		name   string
		amount any
	}{
		{name: "float32 NaN", amount: float32(math.NaN())},
		{name: "float32 infinity", amount: float32(math.Inf(-1))},
		{name: "huge exponent", amount: "1e30000000"},
		{name: "max exponent", amount: json.Number("1e2147483647")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			related := []model.Record{
				testutil.Payment("c1", 5000, 2),
				{"customerId": "c1", "amount": tt.amount, "date": testutil.DaysAgo(1)},
			}

			var entity model.ScoredEntity
			start := time.Now()
			require.NotPanics(t, func() {
				entity = scorer.ScoreEntity(testutil.Customer("c1", "active", 1), related)
			})

			assert.Less(t, time.Since(start), time.Second)
			assert.Equal(t, 2, entity.Input.PaymentCount)
			assert.Equal(t, "5000", entity.Input.Revenue.String())
			assert.Equal(t, 0, entity.Score.Value)

			total := service.TotalField("amount")(model.ScoredEntity{Record: model.Record{"amount": tt.amount}})
			assert.True(t, total.IsZero())
		})
	}
}
