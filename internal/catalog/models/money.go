package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is a currency amount. Sums are exact; display is always two places.
type Money struct {
	decimal.Decimal
}

// MoneyFromFloat converts a product price into Money.
func MoneyFromFloat(f float64) Money {
	return Money{decimal.NewFromFloat(f)}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// String formats the amount with exactly two decimal places.
func (m Money) String() string {
	return m.StringFixed(2)
}

// MarshalJSON encodes the amount as its two-place string, e.g. "14.99".
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a quoted or bare decimal.
func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}
