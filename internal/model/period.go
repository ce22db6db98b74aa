package model

import (
	"time"
)

// Period is a closed date interval with an optional canonical key
// ("2026-08") used to select goal configuration and roster snapshots.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Key   string    `json:"key,omitempty"`
}

// MonthPeriod builds the Period covering one calendar month, keyed "YYYY-MM".
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Period{Start: start, End: end, Key: start.Format("2006-01")}
}

// ParseMonthKey parses a "YYYY-MM" key into its month Period.
func ParseMonthKey(key string) (Period, bool) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Period{}, false
	}
	return MonthPeriod(t.Year(), t.Month()), true
}

// Contains reports whether t falls inside the period. A nil timestamp passes
// the filter: a malformed date cell must not silently drop an otherwise
// valid business record.
func (p Period) Contains(t *time.Time) bool {
	if t == nil {
		return true
	}
	return !t.Before(p.Start) && !t.After(p.End)
}

// Days returns the total number of calendar days in the period.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Elapsed splits the period into elapsed and remaining days as of now.
// Before the period starts nothing has elapsed; after it ends nothing
// remains.
func (p Period) Elapsed(now time.Time) (elapsed, remaining int) {
	total := p.Days()
	switch {
	case now.Before(p.Start):
		return 0, total
	case now.After(p.End):
		return total, 0
	default:
		elapsed = int(now.Sub(p.Start).Hours()/24) + 1
		return elapsed, total - elapsed
	}
}

// Previous returns the period immediately before this one with the same
// length. Month-keyed periods shift by one calendar month.
func (p Period) Previous() Period {
	if p.Key != "" {
		if t, err := time.Parse("2006-01", p.Key); err == nil {
			prev := t.AddDate(0, -1, 0)
			return MonthPeriod(prev.Year(), prev.Month())
		}
	}
	length := p.End.Sub(p.Start)
	return Period{Start: p.Start.Add(-length - time.Nanosecond), End: p.Start.Add(-time.Nanosecond)}
}
