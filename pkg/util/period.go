package util

import (
	"fmt"
	"time"
)

// Periods lists the accepted lookback tokens.
var Periods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// ValidPeriod reports whether p is a known lookback token.
func ValidPeriod(p string) bool {
	for _, v := range Periods {
		if v == p {
			return true
		}
	}
	return false
}

// PeriodStart returns the first instant covered by period p ending at now.
// "max" starts at the Unix epoch.
func PeriodStart(p string, now time.Time) (time.Time, error) {
	now = now.UTC()
	switch p {
	case "1d":
		return now.AddDate(0, 0, -1), nil
	case "5d":
		return now.AddDate(0, 0, -5), nil
	case "1mo":
		return now.AddDate(0, -1, 0), nil
	case "3mo":
		return now.AddDate(0, -3, 0), nil
	case "6mo":
		return now.AddDate(0, -6, 0), nil
	case "1y":
		return now.AddDate(-1, 0, 0), nil
	case "2y":
		return now.AddDate(-2, 0, 0), nil
	case "5y":
		return now.AddDate(-5, 0, 0), nil
	case "10y":
		return now.AddDate(-10, 0, 0), nil
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), nil
	case "max":
		return time.Unix(0, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q", p)
	}
}
