package model

import (
	"github.com/shopspring/decimal"
)

// SignalInput is the fixed-shape set of values derived from one entity record
// and its related records. Signals read only this struct, never the raw record.
//
// Every field defaults to its zero value when the source data is absent, which
// is the neutral (no risk) reading for each signal.
type SignalInput struct {
	// EntityID is the record's own id field; empty when missing.
	EntityID string
	// Status is the lower-cased account status; empty when missing.
	Status string

	// DaysSinceActivity is the whole number of days since the last activity.
	// Zero when no activity date could be parsed.
	DaysSinceActivity int
	// HasActivity reports whether an activity date was present and parseable.
	HasActivity bool

	// PaymentCount is the number of related records matching the entity id.
	PaymentCount int
	// RecentPaymentCount counts matching related records inside the recent window.
	RecentPaymentCount int
	// DaysSincePayment is the age in days of the newest dated payment.
	DaysSincePayment int
	// HasPaymentHistory reports whether any related record matched.
	HasPaymentHistory bool

	// Revenue is the sum of the amount field across matching related records.
	Revenue decimal.Decimal

	// UsageRatio is usage divided by its limit, or 0 when either is unknown.
	UsageRatio float64
}
