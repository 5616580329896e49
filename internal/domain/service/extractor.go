package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/riskscore/internal/domain/model"
)

const hoursPerDay = 24

// ExtractorConfig names the record fields the Extractor reads.
type ExtractorConfig struct {
	IDField string
	// ActivityFields are tried in order; the first parseable timestamp wins.
	ActivityFields []string
	StatusField    string

	// RelatedKeyField is the foreign key on related records that points at IDField.
	RelatedKeyField    string
	RelatedAmountField string
	// RelatedDateFields are tried in order on each related record.
	RelatedDateFields []string
	// RecentWindow bounds RecentPaymentCount.
	RecentWindow time.Duration

	UsageField      string
	UsageLimitField string
}

// DefaultExtractorConfig returns the field names used by the dashboard records.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		IDField:            "id",
		ActivityFields:     []string{"lastActivityAt", "lastLoginAt"},
		StatusField:        "status",
		RelatedKeyField:    "customerId",
		RelatedAmountField: "amount",
		RelatedDateFields:  []string{"date", "createdAt"},
		RecentWindow:       30 * hoursPerDay * time.Hour,
		UsageField:         "usage",
		UsageLimitField:    "usageLimit",
	}
}

// Extractor derives a SignalInput from a raw record and its related records.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	cfg ExtractorConfig
	now func() time.Time
}

// NewExtractor creates an Extractor. A nil clock defaults to time.Now.
func NewExtractor(cfg ExtractorConfig, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{cfg: cfg, now: now}
}

// Extract never fails: missing or malformed fields yield the neutral zero value,
// and an unparseable activity date is read as "now" (zero elapsed days).
func (e *Extractor) Extract(record model.Record, related []model.Record) model.SignalInput {
	now := e.now().UTC()

	in := model.SignalInput{
		EntityID: record.String(e.cfg.IDField),
		Status:   strings.ToLower(record.String(e.cfg.StatusField)),
		Revenue:  decimal.Zero,
	}

	if at, ok := record.FirstTime(e.cfg.ActivityFields...); ok {
		in.HasActivity = true
		in.DaysSinceActivity = daysBetween(at, now)
	}

	in.UsageRatio = e.usageRatio(record)

	if in.EntityID == "" {
		return in
	}

	var newest time.Time
	for _, rel := range related {
		if rel.String(e.cfg.RelatedKeyField) != in.EntityID {
			continue
		}
		in.PaymentCount++

		if amount, ok := rel.Decimal(e.cfg.RelatedAmountField); ok {
			in.Revenue = in.Revenue.Add(amount)
		}

		at, ok := rel.FirstTime(e.cfg.RelatedDateFields...)
		if !ok {
			continue
		}
		if at.After(newest) {
			newest = at
		}
		if e.cfg.RecentWindow > 0 && now.Sub(at) <= e.cfg.RecentWindow {
			in.RecentPaymentCount++
		}
	}

	in.HasPaymentHistory = in.PaymentCount > 0
	if !newest.IsZero() {
		in.DaysSincePayment = daysBetween(newest, now)
	}

	return in
}

func (e *Extractor) usageRatio(record model.Record) float64 {
	usage, ok := record.Decimal(e.cfg.UsageField)
	if !ok {
		return 0
	}
	limit, ok := record.Decimal(e.cfg.UsageLimitField)
	if !ok || !limit.IsPositive() {
		return 0
	}
	return usage.Div(limit).InexactFloat64()
}

// daysBetween returns whole elapsed days, clamped at zero for future dates.
func daysBetween(from, to time.Time) int {
	elapsed := to.Sub(from)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed.Hours() / hoursPerDay)
}
