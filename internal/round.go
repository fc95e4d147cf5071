package internal

import "math"

// RoundHalfUp rounds to the nearest integer with .5 going towards +Inf.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RoundTo rounds x to the given number of decimal places.
func RoundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
