package service

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/bibbank/riskscore/internal/domain/model"
)

// Signal names of the default configuration, in evaluation order.
const (
	SignalInactivity    = "inactivity"
	SignalPaymentLapse  = "paymentLapse"
	SignalAccountStatus = "accountStatus"
	SignalLowRevenue    = "lowRevenue"
)

// EvaluateFunc reports whether a signal triggers for the given input and, if
// so, the human-readable factor label. It must not retain or mutate the input.
type EvaluateFunc func(in model.SignalInput) (triggered bool, label string)

// Signal is a named, weighted contributor to the composite score.
type Signal struct {
	Evaluate EvaluateFunc
	Name     string
	Weight   int
}

// InactivitySignal triggers when the last known activity is older than days.
// Entities with no parseable activity date never trigger it.
func InactivitySignal(weight, days int) Signal {
	return Signal{
		Name:   SignalInactivity,
		Weight: weight,
		Evaluate: func(in model.SignalInput) (bool, string) {
			if !in.HasActivity || in.DaysSinceActivity <= days {
				return false, ""
			}
			return true, fmt.Sprintf("Inactive for %d days", in.DaysSinceActivity)
		},
	}
}

// PaymentLapseSignal triggers when an entity with payment history has made no
// payment inside the recent window.
func PaymentLapseSignal(weight, windowDays int) Signal {
	label := fmt.Sprintf("No payments in the last %d days", windowDays)
	return Signal{
		Name:   SignalPaymentLapse,
		Weight: weight,
		Evaluate: func(in model.SignalInput) (bool, string) {
			if !in.HasPaymentHistory || in.RecentPaymentCount > 0 {
				return false, ""
			}
			return true, label
		},
	}
}

// AccountStatusSignal triggers when the status is one of the risky statuses.
func AccountStatusSignal(weight int, risky []string) Signal {
	statuses := slices.Clone(risky)
	return Signal{
		Name:   SignalAccountStatus,
		Weight: weight,
		Evaluate: func(in model.SignalInput) (bool, string) {
			if in.Status == "" || !slices.Contains(statuses, in.Status) {
				return false, ""
			}
			return true, "Account status: " + in.Status
		},
	}
}

// LowRevenueSignal triggers when an entity with payment history has lifetime
// revenue below limit.
func LowRevenueSignal(weight int, limit decimal.Decimal) Signal {
	return Signal{
		Name:   SignalLowRevenue,
		Weight: weight,
		Evaluate: func(in model.SignalInput) (bool, string) {
			if !in.HasPaymentHistory || !in.Revenue.LessThan(limit) {
				return false, ""
			}
			return true, "Low lifetime revenue"
		},
	}
}
