// Package timeutil provides calendar-day helpers for activity tracking.
// Every helper respects the location of the time it is given, so callers
// decide which timezone "today" belongs to.
package timeutil

import (
	"time"
)

// DateLayout is the ISO date layout used in storage keys and JSON.
const DateLayout = "2006-01-02"

// Clock returns the current time. Inject a fixed Clock in tests.
type Clock func() time.Time

// SystemClock returns a Clock reading the wall clock in loc.
// A nil loc means UTC.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Today returns the start of the current day according to the clock.
func (c Clock) Today() time.Time {
	return StartOfDay(c())
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays shifts t by n calendar days. DST transitions do not skew the result
// because the shift is done on the date, not on a 24h duration.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// IsSameDay checks whether two times fall on the same calendar day.
func IsSameDay(t1, t2 time.Time) bool {
	t2 = t2.In(t1.Location())
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsConsecutiveDay checks if t2 is the day right after t1.
func IsConsecutiveDay(t1, t2 time.Time) bool {
	return IsSameDay(AddDays(t1, 1), t2)
}

// DaysBetween counts calendar days from t1 to t2 (negative when t2 is earlier).
func DaysBetween(t1, t2 time.Time) int {
	a := time.Date(t1.Year(), t1.Month(), t1.Day(), 0, 0, 0, 0, time.UTC)
	t2 = t2.In(t1.Location())
	b := time.Date(t2.Year(), t2.Month(), t2.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// LoadLocation loads a named timezone and falls back to UTC on failure.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
