// Package core holds the domain types shared by the ingestion pipeline,
// storage and transport layers.
package core

import (
	"math"

	"github.com/shopspring/decimal"
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// ToCents converts an amount to integer minor units with half-up rounding.
//
// Examples:
//
//	ToCents(2500)    -> 250000
//	ToCents(450.505) -> 45051
func ToCents(d decimal.Decimal) (int64, error) {
	c := d.Shift(2).Round(0)
	if c.Abs().GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return c.IntPart(), nil
}

// FromCents is the inverse of ToCents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
