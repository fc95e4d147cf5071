package score

import "github.com/balasutharsan1247/student-fitness-app/internal"

func roundHalfUp(x float64) int {
	return internal.RoundHalfUp(x)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
