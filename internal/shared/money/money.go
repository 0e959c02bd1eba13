package money

import (
	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FromValue reads a record value as a decimal. Numeric strings are accepted.
func FromValue(v any) (decimal.Decimal, bool) {
	if s, ok := v.(string); ok {
		d, err := decimal.NewFromString(s)
		return d, err == nil
	}
	f, ok := store.ToFloat(v)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// Field reads rec[field], zero when absent or not numeric.
func Field(rec store.Record, field string) decimal.Decimal {
	d, _ := FromValue(rec[field])
	return d
}

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns d × rate / 100.
func Percent(d, rate decimal.Decimal) decimal.Decimal {
	return d.Mul(rate).Div(hundred)
}

// Float converts a rounded amount for storage in a record.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
