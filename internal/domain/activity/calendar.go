// Package activity shapes daily solve counts into the yearly contribution
// calendar and computes its summary counters.
package activity

import (
	"fmt"
	"time"

	"github.com/physics-hub/practice-hub/internal/domain/shared"
	"github.com/physics-hub/practice-hub/pkg/timeutil"
)

// CalendarDays is the fixed length of the contribution calendar.
const CalendarDays = 365

// WeeksPerYear is the divisor used for the weekly average.
const WeeksPerYear = 52

// ══════════════════════════════════════════════════════════════════════════════
// WINDOW
// ══════════════════════════════════════════════════════════════════════════════

// Window is the inclusive range of calendar days covered by a Calendar.
type Window struct {
	// From is the first (oldest) day, at midnight.
	From time.Time
	// To is the last day (today), at midnight.
	To time.Time
}

// WindowEnding returns the CalendarDays-long window whose last day is today's date.
func WindowEnding(today time.Time) Window {
	to := timeutil.StartOfDay(today)
	return Window{
		From: timeutil.AddDays(to, -(CalendarDays - 1)),
		To:   to,
	}
}

// Days returns the number of days in the window.
func (w Window) Days() int {
	return timeutil.DaysBetween(w.From, w.To) + 1
}

// DayAt returns the date of the i-th day of the window (0 = oldest).
func (w Window) DayAt(i int) time.Time {
	return timeutil.AddDays(w.From, i)
}

// IndexOf returns the position of t inside the window and whether it falls inside.
func (w Window) IndexOf(t time.Time) (int, bool) {
	idx := timeutil.DaysBetween(w.From, t)
	return idx, idx >= 0 && idx < w.Days()
}

// ══════════════════════════════════════════════════════════════════════════════
// DAYS AND INTENSITY
// ══════════════════════════════════════════════════════════════════════════════

// Intensity is the display bucket for a day's solve count.
type Intensity string

const (
	IntensityNone     Intensity = "none"
	IntensityLight    Intensity = "light"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
	IntensityVeryHigh Intensity = "very high"
)

// Classify maps a solve count to its intensity bucket.
func Classify(count int) Intensity {
	switch {
	case count <= 0:
		return IntensityNone
	case count <= 2:
		return IntensityLight
	case count <= 4:
		return IntensityModerate
	case count <= 6:
		return IntensityHigh
	default:
		return IntensityVeryHigh
	}
}

// Day is one calendar cell.
type Day struct {
	Date       time.Time
	SolveCount int

	// Denormalized for rendering. Month is 0-based (January = 0).
	Day   int
	Month int
	Year  int
}

// Intensity returns the display bucket of the day.
func (d Day) Intensity() Intensity {
	return Classify(d.SolveCount)
}

func newDay(date time.Time, count int) Day {
	return Day{
		Date:       date,
		SolveCount: count,
		Day:        date.Day(),
		Month:      int(date.Month()) - 1,
		Year:       date.Year(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CALENDAR
// ══════════════════════════════════════════════════════════════════════════════

// Calendar is exactly CalendarDays consecutive days ending today, oldest first.
// It is immutable once built.
type Calendar struct {
	window Window
	days   []Day
	total  int
	best   int
	active int
}

// BuildCalendar shapes counts into the calendar ending on today's date.
// counts[i] is the solve count of day today-364+i. Exactly CalendarDays
// non-negative counts are required; the calendar is never padded or truncated.
func BuildCalendar(today time.Time, counts []int) (*Calendar, error) {
	if len(counts) != CalendarDays {
		return nil, shared.WrapError("activity", "BuildCalendar", shared.ErrValueOutOfRange,
			fmt.Sprintf("expected %d daily counts, got %d", CalendarDays, len(counts)), shared.ErrCalendarLength)
	}

	window := WindowEnding(today)
	cal := &Calendar{
		window: window,
		days:   make([]Day, CalendarDays),
	}

	for i, c := range counts {
		if c < 0 {
			return nil, shared.ErrNegativeSolveCount
		}
		cal.days[i] = newDay(window.DayAt(i), c)
		cal.total += c
		if c > cal.best {
			cal.best = c
		}
		if c > 0 {
			cal.active++
		}
	}

	return cal, nil
}

// Window returns the date range covered by the calendar.
func (c *Calendar) Window() Window {
	return c.window
}

// Days returns a copy of the calendar cells, oldest first.
func (c *Calendar) Days() []Day {
	out := make([]Day, len(c.days))
	copy(out, c.days)
	return out
}

// Len returns the number of days (always CalendarDays).
func (c *Calendar) Len() int {
	return len(c.days)
}

// TotalContributions returns the sum of all daily solve counts.
func (c *Calendar) TotalContributions() int {
	return c.total
}

// AveragePerWeek returns round(TotalContributions / 52).
func (c *Calendar) AveragePerWeek() int {
	return shared.RatioRound(c.total, WeeksPerYear)
}

// BestDay returns the highest single-day solve count.
func (c *Calendar) BestDay() int {
	return c.best
}

// ActiveDays returns how many days have at least one solve.
func (c *Calendar) ActiveDays() int {
	return c.active
}
