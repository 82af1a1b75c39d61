package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	ts := time.Date(2026, 10, 14, 17, 45, 3, 12, loc)

	got := StartOfDay(ts)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 3, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, DaysBetween(a, b))
	assert.Equal(t, -2, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, 365, DaysBetween(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIsSameAndConsecutiveDay(t *testing.T) {
	a := time.Date(2026, 2, 28, 8, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDay(a, a.Add(10*time.Hour)))
	assert.False(t, IsSameDay(a, b))
	assert.True(t, IsConsecutiveDay(a, b))
	assert.False(t, IsConsecutiveDay(b, a))
}

func TestClock(t *testing.T) {
	fixed := time.Date(2026, 10, 14, 12, 30, 0, 0, time.UTC)
	clock := FixedClock(fixed)

	assert.Equal(t, fixed, clock())
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), clock.Today())
	assert.Equal(t, time.UTC, SystemClock(nil)().Location())
}

func TestFormatAndParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-14", nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", FormatDate(d))

	_, err = ParseDate("14.10.2026", time.UTC)
	assert.Error(t, err)
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)))  // Saturday
	assert.False(t, IsWeekend(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))) // Wednesday
}

func TestLoadLocation_Fallback(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Not/AZone"))
}
