package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bibbank/riskscore/internal/domain/model"
	"github.com/bibbank/riskscore/internal/domain/service"
	"github.com/bibbank/riskscore/pkg/testutil"
)

func newExtractor() *service.Extractor {
	return service.NewExtractor(service.DefaultExtractorConfig(), testutil.Clock())
}

func TestExtractor_DaysSinceActivity(t *testing.T) {
	in := newExtractor().Extract(testutil.Customer("c1", "active", 45), nil)

	assert.Equal(t, "c1", in.EntityID)
	assert.Equal(t, "active", in.Status)
	assert.True(t, in.HasActivity)
	assert.Equal(t, 45, in.DaysSinceActivity)
}

func TestExtractor_ActivityFieldPrecedence(t *testing.T) {
	rec := model.Record{
		"id":             "c1",
		"lastActivityAt": testutil.DaysAgo(3),
		"lastLoginAt":    testutil.DaysAgo(90),
	}
	assert.Equal(t, 3, newExtractor().Extract(rec, nil).DaysSinceActivity)

	rec = model.Record{
		"id":             "c1",
		"lastActivityAt": "garbage",
		"lastLoginAt":    testutil.DaysAgo(90),
	}
	assert.Equal(t, 90, newExtractor().Extract(rec, nil).DaysSinceActivity)
}

func TestExtractor_UnparseableDateIsNow(t *testing.T) {
	rec := model.Record{"id": "c1", "lastActivityAt": "last tuesday"}

	in := newExtractor().Extract(rec, nil)

	assert.False(t, in.HasActivity)
	assert.Equal(t, 0, in.DaysSinceActivity)
}

func TestExtractor_FutureDateClampsToZero(t *testing.T) {
	rec := model.Record{"id": "c1", "lastActivityAt": testutil.FixedNow.AddDate(0, 0, 5).Format("2006-01-02")}

	in := newExtractor().Extract(rec, nil)

	assert.True(t, in.HasActivity)
	assert.Equal(t, 0, in.DaysSinceActivity)
}

func TestExtractor_StatusIsLowerCased(t *testing.T) {
	in := newExtractor().Extract(model.Record{"id": "c1", "status": "  SUSPENDED "}, nil)
	assert.Equal(t, "suspended", in.Status)
}

func TestExtractor_RevenueAndPayments(t *testing.T) {
	related := []model.Record{
		testutil.Payment("c1", 200, 40),
		testutil.Payment("c1", 250.5, 10),
		{"customerId": "c1", "amount": "49.5", "date": "not a date"},
		{"customerId": "c1", "amount": "n/a", "createdAt": testutil.DaysAgo(60)},
		{"customerId": "c1"},
		testutil.Payment("c2", 10_000, 1),
	}

	in := newExtractor().Extract(testutil.Customer("c1", "active", 1), related)

	assert.True(t, in.HasPaymentHistory)
	assert.Equal(t, 5, in.PaymentCount)
	assert.Equal(t, 1, in.RecentPaymentCount)
	assert.Equal(t, 10, in.DaysSincePayment)
	assert.True(t, decimal.RequireFromString("500").Equal(in.Revenue), "got %s", in.Revenue)
}

func TestExtractor_NumericForeignKey(t *testing.T) {
	related := []model.Record{
		{"customerId": float64(7), "amount": 100.0, "date": testutil.DaysAgo(2)},
	}

	in := newExtractor().Extract(model.Record{"id": "7"}, related)

	assert.Equal(t, 1, in.PaymentCount)
	assert.True(t, decimal.NewFromInt(100).Equal(in.Revenue))
}

func TestExtractor_MissingIDIgnoresRelated(t *testing.T) {
	related := []model.Record{{"customerId": "", "amount": 100.0}}

	in := newExtractor().Extract(model.Record{}, related)

	assert.Equal(t, model.SignalInput{Revenue: decimal.Zero}, in)
}

func TestExtractor_EmptyRecordIsNeutral(t *testing.T) {
	in := newExtractor().Extract(nil, nil)

	assert.Empty(t, in.EntityID)
	assert.False(t, in.HasActivity)
	assert.False(t, in.HasPaymentHistory)
	assert.True(t, in.Revenue.IsZero())
	assert.Zero(t, in.UsageRatio)
}

func TestExtractor_UsageRatio(t *testing.T) {
	tests := []struct {
		name string
		rec  model.Record
		want float64
	}{
		{name: "both present", rec: model.Record{"usage": 75, "usageLimit": 100}, want: 0.75},
		{name: "string values", rec: model.Record{"usage": "30", "usageLimit": "120"}, want: 0.25},
		{name: "zero limit", rec: model.Record{"usage": 75, "usageLimit": 0}, want: 0},
		{name: "missing limit", rec: model.Record{"usage": 75}, want: 0},
		{name: "missing usage", rec: model.Record{"usageLimit": 100}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, newExtractor().Extract(tt.rec, nil).UsageRatio, 1e-9)
		})
	}
}

func TestExtractor_DoesNotMutateInput(t *testing.T) {
	rec := testutil.Customer("c1", "Suspended", 45)
	related := []model.Record{testutil.Payment("c1", 10, 5)}
	before := model.Record{}
	for k, v := range rec {
		before[k] = v
	}

	newExtractor().Extract(rec, related)

	assert.Equal(t, before, rec)
	assert.Len(t, related, 1)
}
