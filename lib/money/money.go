// Package money formats amounts for receipts. Calculations stay in float64;
// rounding to cents happens only here.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

const centPlaces = 2

// Cents rounds amount half away from zero to two decimal places.
func Cents(amount float64) decimal.Decimal {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero
	}

	return decimal.NewFromFloat(amount).Round(centPlaces)
}

// Format renders amount as "$1234.56", or "-$5.00" for negatives.
func Format(amount float64) string {
	d := Cents(amount)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(centPlaces)
	}

	return "$" + d.StringFixed(centPlaces)
}

// Fixed renders amount with exactly two decimals and no currency sign.
func Fixed(amount float64) string {
	return Cents(amount).StringFixed(centPlaces)
}
