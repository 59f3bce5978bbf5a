// Package money wraps the decimal arithmetic used by the ledger
// updaters. Stored records keep float64 on the wire; computing through
// decimals keeps pro-rata shares and aggregate sums exact.
package money

import "github.com/shopspring/decimal"

// Share divides an amount evenly across n participants.
func Share(amount float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	share, _ := decimal.NewFromFloat(amount).DivRound(decimal.NewFromInt(int64(n)), 8).Float64()
	return share
}

// SubFloored subtracts x from balance, flooring at zero. Amounts lost
// to the floor are accepted policy, not rounding error.
func SubFloored(balance, x float64) float64 {
	d := decimal.NewFromFloat(balance).Sub(decimal.NewFromFloat(x))
	if d.IsNegative() {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// Add sums two amounts exactly.
func Add(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Float64()
	return f
}

// Sum totals a slice of amounts exactly.
func Sum(values []float64) float64 {
	acc := decimal.Zero
	for _, v := range values {
		acc = acc.Add(decimal.NewFromFloat(v))
	}
	f, _ := acc.Float64()
	return f
}
