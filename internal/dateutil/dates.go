// Package dateutil parses the loosely formatted dates found on review sites
// and implements the date-window policy used while paginating.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the canonical output and input format
const ISOLayout = "2006-01-02"

// ErrInvalidDate is returned for user input that is not YYYY-MM-DD
var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

// DefaultLayouts lists the accepted layouts in priority order. Month-first
// slash dates win over day-first ones when both would parse.
var DefaultLayouts = []string{
	"2006-1-2",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"1/2/2006",
	"2/1/2006",
	"2006-1-2 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Parse tries DefaultLayouts and returns the calendar date of the first match.
func Parse(text string) (time.Time, bool) {
	return ParseWith(text, DefaultLayouts)
}

// ParseWith tries layouts in order. Any time of day is discarded so that a
// review posted on the end date still falls inside the window.
func ParseWith(text string, layouts []string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// Day truncates t to midnight UTC of its own calendar date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InRange reports whether start <= d <= end, both bounds inclusive.
func InRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

// ShouldStop reports whether a parsed date is strictly older than start.
// Unparseable dates (ok == false) never stop the scrape.
func ShouldStop(d time.Time, ok bool, start time.Time) bool {
	return ok && d.Before(start)
}

// Format renders d as YYYY-MM-DD
func Format(d time.Time) string {
	return d.Format(ISOLayout)
}

// Reformat normalizes text to YYYY-MM-DD when it parses, and returns it
// unchanged otherwise.
func Reformat(text string) string {
	if d, ok := Parse(text); ok {
		return Format(d)
	}
	return text
}

// ParseInput parses a strict YYYY-MM-DD command line value.
func ParseInput(text string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	return t, nil
}

// ValidateWindow parses both bounds and checks start <= end.
func ValidateWindow(startText, endText string) (start, end time.Time, err error) {
	if start, err = ParseInput(startText); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	if end, err = ParseInput(endText); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s must be before or equal to end date %s", startText, endText)
	}
	return start, end, nil
}
