package timerange

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned for any range key outside the allowed set.
var ErrInvalidRange = errors.New("invalid range: allowed values are 7d, 15d, 30d")

var allowedRanges = map[string]int{
	"7d":  7,
	"15d": 15,
	"30d": 30,
}

// Cutoff translates a range key into the earliest timestamp it covers.
func Cutoff(rangeKey string, now time.Time) (time.Time, error) {
	days, ok := allowedRanges[rangeKey]
	if !ok {
		return time.Time{}, ErrInvalidRange
	}
	return now.AddDate(0, 0, -days), nil
}

// Valid reports whether rangeKey is one of the allowed keys.
func Valid(rangeKey string) bool {
	_, ok := allowedRanges[rangeKey]
	return ok
}
