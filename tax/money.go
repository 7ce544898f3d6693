package tax

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is wrapped by every validation failure raised by the engine.
// Callers match it with errors.Is and surface it as a client error.
var ErrInvalidInput = errors.New("invalid input")

var hundred = decimal.NewFromInt(100)

// Round rounds a Naira amount to kobo precision (2 dp, half away from zero).
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Mul returns amount × rate rounded to kobo precision.
func Mul(amount, rate float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(rate)).
		Round(2).
		InexactFloat64()
}

// Percent returns part / whole × 100 rounded to 2 dp, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}

	return decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(hundred).
		Round(2).
		InexactFloat64()
}

// AsPercent converts a fractional rate such as 0.15 into 15.
func AsPercent(rate float64) float64 {
	return decimal.NewFromFloat(rate).Mul(hundred).InexactFloat64()
}

// Sum adds amounts exactly and rounds the total to kobo precision.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}

	return total.Round(2).InexactFloat64()
}
