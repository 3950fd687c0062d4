// Package numeric holds the rounding and zero-guarded division used by every
// reported rate.
package numeric

import "github.com/shopspring/decimal"

// Round rounds x half away from zero to places decimals.
func Round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// Round2 rounds to two decimals.
func Round2(x float64) float64 {
	return Round(x, 2)
}

// Div returns num/den rounded to two decimals, or 0 when den is 0.
func Div(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(num)).
		Div(decimal.NewFromInt(int64(den))).
		Round(2).
		InexactFloat64()
}

// Percent returns num/den*100 rounded to two decimals, or 0 when den is 0.
func Percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(num)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(den))).
		Round(2).
		InexactFloat64()
}

// Mean returns the two-decimal average of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Div(decimal.NewFromInt(int64(len(values)))).Round(2).InexactFloat64()
}
