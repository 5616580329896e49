package testutil

import (
	"time"

	"github.com/bibbank/riskscore/internal/domain/model"
)

// FixedNow is the reference instant used by deterministic tests.
var FixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// Clock returns a clock function pinned to FixedNow.
func Clock() func() time.Time {
	return func() time.Time { return FixedNow }
}

// DaysAgo returns an RFC3339 timestamp n days before FixedNow.
func DaysAgo(n int) string {
	return FixedNow.AddDate(0, 0, -n).Format(time.RFC3339)
}

// Customer builds an entity record with the default field names.
func Customer(id, status string, lastActiveDaysAgo int) model.Record {
	return model.Record{
		"id":             id,
		"status":         status,
		"lastActivityAt": DaysAgo(lastActiveDaysAgo),
	}
}

// Payment builds a related payment record for customerID.
func Payment(customerID string, amount float64, daysAgo int) model.Record {
	return model.Record{
		"customerId": customerID,
		"amount":     amount,
		"date":       DaysAgo(daysAgo),
	}
}
