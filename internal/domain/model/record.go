package model

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is an opaque, read-only bag of fields describing one scored subject
// (customer, account, service, model) or one related row such as a payment.
// Accessors never fail: absent or malformed fields report ok=false or a zero value.
type Record map[string]any

const (
	// maxExponent bounds the base-10 exponent of accepted numeric values.
	maxExponent = 64
	// maxExactInt is 2^63; integral floats at or beyond it do not fit int64.
	maxExactInt = 1 << 63
)

// maxUnixSeconds is the largest Unix timestamp accepted (year 9999).
var maxUnixSeconds = decimal.NewFromInt(253402300799)

// dateLayouts are tried in order when a field holds a string timestamp.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Has reports whether the field is present and not null.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String returns the field as a trimmed string. Numbers are formatted without
// exponent so numeric ids compare equal to their string form.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < maxExactInt {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(val)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}

// Decimal returns the field as a decimal. Numeric strings are accepted.
// Values outside the supported exponent range are treated as non-numeric.
func (r Record) Decimal(field string) (decimal.Decimal, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return decimal.Zero, false
	}
	switch val := v.(type) {
	case decimal.Decimal:
		return bounded(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero, false
		}
		return bounded(decimal.NewFromFloat(val))
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return decimal.Zero, false
		}
		return bounded(decimal.NewFromFloat32(val))
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int8:
		return decimal.NewFromInt(int64(val)), true
	case int16:
		return decimal.NewFromInt(int64(val)), true
	case int32:
		return decimal.NewFromInt32(val), true
	case int64:
		return decimal.NewFromInt(val), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(val)), 0), true
	case uint8:
		return decimal.NewFromInt(int64(val)), true
	case uint16:
		return decimal.NewFromInt(int64(val)), true
	case uint32:
		return decimal.NewFromInt(int64(val)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(val), 0), true
	case json.Number:
		return parseDecimal(val.String())
	case string:
		return parseDecimal(val)
	default:
		return decimal.Zero, false
	}
}

// Float returns the field as a float64.
func (r Record) Float(field string) (float64, bool) {
	d, ok := r.Decimal(field)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Time returns the field as a UTC timestamp. Strings are parsed against the
// supported layouts; numbers are read as Unix seconds.
func (r Record) Time(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.UTC(), true
	case string:
		return parseTime(val)
	case float64, float32, json.Number, int, int32, int64, uint, uint32, uint64:
		secs, ok := r.Decimal(field)
		if !ok || secs.IsNegative() || secs.GreaterThan(maxUnixSeconds) {
			return time.Time{}, false
		}
		return time.Unix(secs.IntPart(), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// FirstTime returns the first field, in order, that holds a parseable timestamp.
func (r Record) FirstTime(fields ...string) (time.Time, bool) {
	for _, f := range fields {
		if t, ok := r.Time(f); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return bounded(d)
}

// bounded rejects values whose exponent would make arithmetic on them
// allocate digits proportional to the exponent.
func bounded(d decimal.Decimal) (decimal.Decimal, bool) {
	if exp := d.Exponent(); exp < -maxExponent || exp > maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
