package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money crosses two boundaries as decimal euro strings: checkout request
// bodies and Stripe metadata. These helpers convert to and from the
// int64 euro cents used everywhere inside, so stringly-typed amounts
// never reach the ledger.

// ParseEuros converts a decimal euro amount like "7.50" to cents.
// Sub-cent precision is rejected rather than rounded.
func ParseEuros(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}
	return cents.IntPart(), nil
}

// FormatEuros renders cents as a two-decimal euro string, e.g. 750 -> "7.50".
func FormatEuros(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// EuroFloat converts cents to a float euro amount for JSON responses.
func EuroFloat(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}
