// Package currency implements the fixed-point arithmetic used by the
// reconciliation core.
//
// All sums, comparisons and invariant checks operate on integer minor
// units (cents) so that no rounding drift can accumulate. Amounts enter
// and leave as decimal values with two decimal places.
package currency

import (
	"github.com/shopspring/decimal"
)

// Cents is a currency amount in integer minor units.
type Cents int64

var oneHundred = decimal.NewFromInt(100)

// Round2 rounds a decimal to two decimal places, half away from zero.
// This is the single rounding primitive for the whole core.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromDecimal converts a decimal amount to cents, rounding to two
// decimal places first.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(Round2(d).Shift(2).IntPart())
}

// Decimal converts cents back to a two-decimal value for the boundary.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Share returns round2(amount × percentage / 100) in cents.
func Share(amount Cents, percentage decimal.Decimal) Cents {
	return FromDecimal(amount.Decimal().Mul(percentage).Div(oneHundred))
}

// ProRata returns round2(target × part / total) in cents.
// total must not be zero.
func ProRata(target, part, total Cents) Cents {
	return FromDecimal(target.Decimal().Mul(part.Decimal()).Div(total.Decimal()))
}

// PercentageOf returns part / whole × 100 as a two-decimal value.
// Returns zero when whole is zero.
func PercentageOf(part, whole Cents) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}

	return Round2(part.Decimal().Mul(oneHundred).Div(whole.Decimal()))
}
