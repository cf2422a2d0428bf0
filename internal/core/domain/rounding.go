package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingMethod selects the discipline applied when truncating a converted
// amount to a fixed number of decimal places.
type RoundingMethod string

const (
	// RoundUp always rounds away from zero toward the next representable unit.
	RoundUp RoundingMethod = "up"
	// RoundDown truncates toward zero.
	RoundDown RoundingMethod = "down"
	// RoundHalfUp rounds midpoints away from zero.
	RoundHalfUp RoundingMethod = "half_up"
	// RoundHalfDown rounds midpoints toward zero.
	RoundHalfDown RoundingMethod = "half_down"
	// RoundHalfEven rounds midpoints to the nearest even digit (banker's rounding).
	RoundHalfEven RoundingMethod = "half_even"
)

// DefaultDecimalPlaces is the precision used when a caller does not specify one.
const DefaultDecimalPlaces int32 = 2

// ParseRoundingMethod validates a rounding method name. The empty string maps
// to the default, half_up.
func ParseRoundingMethod(s string) (RoundingMethod, error) {
	switch RoundingMethod(s) {
	case "":
		return RoundHalfUp, nil
	case RoundUp, RoundDown, RoundHalfUp, RoundHalfDown, RoundHalfEven:
		return RoundingMethod(s), nil
	}
	return "", fmt.Errorf("unknown rounding method %q", s)
}

// Round applies the given discipline to v at the target precision. All
// arithmetic is decimal-exact; binary floating point is never involved.
func Round(v decimal.Decimal, places int32, method RoundingMethod) (decimal.Decimal, error) {
	switch method {
	case RoundUp:
		return v.RoundUp(places), nil
	case RoundDown:
		return v.RoundDown(places), nil
	case RoundHalfUp:
		return v.Round(places), nil
	case RoundHalfDown:
		return roundHalfDown(v, places), nil
	case RoundHalfEven:
		return v.RoundBank(places), nil
	}
	return decimal.Zero, fmt.Errorf("unknown rounding method %q", method)
}

// roundHalfDown rounds to places decimals, with exact midpoints going toward
// zero instead of away.
func roundHalfDown(v decimal.Decimal, places int32) decimal.Decimal {
	shifted := v.Shift(places)
	truncated := shifted.Truncate(0)
	frac := shifted.Sub(truncated).Abs()

	if frac.GreaterThan(decimal.NewFromFloat(0.5)) {
		step := decimal.NewFromInt(1)
		if shifted.IsNegative() {
			step = step.Neg()
		}
		truncated = truncated.Add(step)
	}
	return truncated.Shift(-places)
}
