package models

import (
	"fmt"
	"time"
)

// Window is an inclusive date range, date-only granularity. Day strings
// are ISO YYYY-MM-DD, so lexicographic comparison matches chronological
// order.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseWindow validates both bounds and returns the window. Either bound
// empty is an error; callers pass a nil *Window for "no window".
func ParseWindow(start, end string) (*Window, error) {
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return nil, fmt.Errorf("invalid window start %q: %w", start, err)
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return nil, fmt.Errorf("invalid window end %q: %w", end, err)
	}
	if end < start {
		return nil, fmt.Errorf("window end %q before start %q", end, start)
	}
	return &Window{Start: start, End: end}, nil
}

// Contains reports whether the day falls within the window, bounds
// inclusive.
func (w *Window) Contains(day string) bool {
	return day >= w.Start && day <= w.End
}

// String returns a log-friendly representation.
func (w *Window) String() string {
	return w.Start + ".." + w.End
}
