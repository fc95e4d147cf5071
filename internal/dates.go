package internal

import (
	"math"
	"time"
)

const (
	Day        = 24 * time.Hour
	DateLayout = "2006-01-02"
)

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// ParseDate parses an ISO-8601 calendar date into local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// CeilDays converts d into whole days, rounding up.
func CeilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(Day)))
}
