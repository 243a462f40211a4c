package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates throughout the API.
const DateLayout = "2006-01-02"

// Range is an inclusive calendar date span. Start and End are midnight UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseRange validates and normalizes a start/end pair in DateLayout form.
func ParseRange(start, end string) (Range, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start_date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Range{}, fmt.Errorf("invalid end_date %q: %w", end, err)
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("end_date %s precedes start_date %s", end, start)
	}
	return Range{Start: s, End: e}, nil
}

// LastNDays builds the trailing n-day range ending yesterday.
func LastNDays(n int, now time.Time) (Range, error) {
	if n < 1 {
		return Range{}, fmt.Errorf("days must be at least 1, got %d", n)
	}
	y, m, d := now.UTC().Date()
	yesterday := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Range{Start: yesterday.AddDate(0, 0, 1-n), End: yesterday}, nil
}

// Days expands the range into its calendar dates in chronological order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of calendar days covered.
func (r Range) Len() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r Range) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
