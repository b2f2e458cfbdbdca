// Package daterange normalizes start/end date query parameters into a
// concrete UTC instant pair for the analytics pipelines.
package daterange

import "time"

// DefaultWindowDays is the size of the default trailing window, inclusive of
// both endpoints (today plus the 29 preceding days).
const DefaultWindowDays = 30

// DateFormat is the accepted wire format for start/end query parameters.
const DateFormat = "2006-01-02"

// Range represents a normalized [Start, End] instant pair in UTC.
// Start sits at 00:00:00 of its day and End at 23:59:59 of its day.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// StartISO returns the start day as an ISO date string.
func (r Range) StartISO() string {
	return r.Start.Format(DateFormat)
}

// EndISO returns the end day as an ISO date string.
func (r Range) EndISO() string {
	return r.End.Format(DateFormat)
}

type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

func (p *DefaultTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Parser normalizes raw start/end query values into a Range.
type Parser struct {
	timeProvider TimeProvider
}

func NewParser(timeProvider ...TimeProvider) *Parser {
	var provider TimeProvider = &DefaultTimeProvider{}
	if len(timeProvider) > 0 && timeProvider[0] != nil {
		provider = timeProvider[0]
	}

	return &Parser{timeProvider: provider}
}

// Parse normalizes the optional start/end ISO date strings.
//
// Each value is parsed as UTC midnight; an invalid or missing value falls
// back to its default (end of today, or a start 29 days earlier). After
// snapping start to 00:00:00 and end to 23:59:59, a start later than end
// reverts the entire pair to the defaults rather than swapping.
func (p *Parser) Parse(startStr, endStr string) Range {
	now := p.timeProvider.Now().UTC()
	defaultEnd := endOfDay(now)
	defaultStart := startOfDay(now.AddDate(0, 0, -(DefaultWindowDays - 1)))

	start := defaultStart
	if parsed, ok := parseDate(startStr); ok {
		start = startOfDay(parsed)
	}

	end := defaultEnd
	if parsed, ok := parseDate(endStr); ok {
		end = endOfDay(parsed)
	}

	if start.After(end) {
		return Range{Start: defaultStart, End: defaultEnd}
	}

	return Range{Start: start, End: end}
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation(DateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}
