package postgres

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physics-hub/practice-hub/internal/domain/activity"
)

func TestDensify(t *testing.T) {
	window := activity.WindowEnding(time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC))

	counts := densify(window, []dayCount{
		{Day: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), Count: 4},
		{Day: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), Count: 2},
		{Day: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Count: 1},
		// outside the window
		{Day: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), Count: 9},
		{Day: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), Count: 9},
	})

	require.Len(t, counts, activity.CalendarDays)
	assert.Equal(t, 4, counts[364])
	assert.Equal(t, 2, counts[0])

	idx, ok := window.IndexOf(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 1, counts[idx])

	sum := 0
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, 7, sum)

	_, err := activity.BuildCalendar(window.To, counts)
	assert.NoError(t, err)
}

func TestDensify_ForeignZone(t *testing.T) {
	almaty, err := time.LoadLocation("Asia/Almaty")
	if err != nil {
		t.Skip("tzdata not available")
	}
	window := activity.WindowEnding(time.Date(2026, 10, 14, 1, 0, 0, 0, almaty))

	// DATE values arrive as UTC midnight of the local calendar day
	counts := densify(window, []dayCount{{Day: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), Count: 3}})
	assert.Equal(t, 3, counts[364])
}

func TestDensify_Empty(t *testing.T) {
	window := activity.WindowEnding(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))
	counts := densify(window, nil)
	assert.Len(t, counts, activity.CalendarDays)
	for _, c := range counts {
		assert.Zero(t, c)
	}
}

func TestZoneName(t *testing.T) {
	assert.Equal(t, "UTC", zoneName(nil))
	assert.Equal(t, "UTC", zoneName(time.Local))
	assert.Equal(t, "UTC", zoneName(time.UTC))
	if loc, err := time.LoadLocation("Europe/Berlin"); err == nil {
		assert.Equal(t, "Europe/Berlin", zoneName(loc))
	}
}

func TestMigrations_Ordered(t *testing.T) {
	migs := Migrations()
	require.NotEmpty(t, migs)
	for i, m := range migs {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, strings.TrimSpace(m.UpSQL))
	}

	var all strings.Builder
	for _, m := range migs {
		all.WriteString(m.UpSQL)
	}
	for _, table := range []string{"users", "user_stats", "topics", "user_topic_progress", "solve_events", "leaderboard_roster"} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.False(t, IsNoRows(errors.New("x")))

	unique := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}
