// Package dates normalizes the loosely formatted date strings that arrive
// from the intake forms.
package dates

import (
	"strings"
	"time"
)

// acceptedLayouts mirrors what the browser clients actually send: ISO
// timestamps, date-only strings, and datetime-local values.
var acceptedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
}

// Parse attempts each accepted layout in order. ok is false for blank or
// unparsable input; parsing never errors.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToDateOnly normalizes a date string to YYYY-MM-DD. Unparsable input
// yields nil, never an error.
func ToDateOnly(s string) *string {
	t, ok := Parse(s)
	if !ok {
		return nil
	}
	out := t.UTC().Format("2006-01-02")
	return &out
}

// ToTime parses a timestamp, nil when unparsable.
func ToTime(s string) *time.Time {
	t, ok := Parse(s)
	if !ok {
		return nil
	}
	utc := t.UTC()
	return &utc
}
