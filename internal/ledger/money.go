// Package ledger is the transaction accounting engine: construction of
// well-formed transactions, shared-expense allocation and every figure derived
// from the transaction log. All functions here are pure.
package ledger

import (
	"github.com/shopspring/decimal"
)

// Sums are carried in decimal so that 2dp figures add up exactly.

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
