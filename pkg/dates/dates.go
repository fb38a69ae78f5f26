package dates

import (
	"fmt"
	"time"
)

// Layout is the date-only wire format used across API payloads.
const Layout = "2006-01-02"

// DateOnly truncates a timestamp to midnight UTC so date comparisons ignore
// the time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last calendar day of the given year/month.
func EndOfMonth(year, month int) time.Time {
	// day zero of the next month normalizes to the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns the first calendar day of the given year/month.
func StartOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// Format renders a date-only string.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatPtr renders a nullable date-only string.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}

// Parse reads a YYYY-MM-DD string into a UTC midnight timestamp.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return DateOnly(t), nil
}
