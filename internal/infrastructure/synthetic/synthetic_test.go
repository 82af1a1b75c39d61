package synthetic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physics-hub/practice-hub/internal/domain/activity"
	"github.com/physics-hub/practice-hub/internal/domain/progress"
)

var today = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func TestActivitySource_ShapeAndRanges(t *testing.T) {
	src := NewActivitySource(42)
	window := activity.WindowEnding(today)

	counts, err := src.DailySolveCounts(context.Background(), uuid.New(), window)
	require.NoError(t, err)
	require.Len(t, counts, activity.CalendarDays)

	for i, c := range counts {
		switch window.DayAt(i).Weekday() {
		case time.Saturday, time.Sunday:
			assert.True(t, c >= 0 && c <= weekendMaxSolves, "weekend day %d has %d", i, c)
		default:
			assert.True(t, c >= 0 && c <= weekdayMaxSolves, "weekday %d has %d", i, c)
		}
	}

	_, err = activity.BuildCalendar(window.To, counts)
	assert.NoError(t, err)
}

func TestActivitySource_Deterministic(t *testing.T) {
	user := uuid.New()
	window := activity.WindowEnding(today)

	a, err := NewActivitySource(7).DailySolveCounts(context.Background(), user, window)
	require.NoError(t, err)
	b, err := NewActivitySource(7).DailySolveCounts(context.Background(), user, window)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestActivitySource_StableAcrossWindows(t *testing.T) {
	src := NewActivitySource(7)
	user := uuid.New()

	prev, err := src.DailySolveCounts(context.Background(), user, activity.WindowEnding(today.AddDate(0, 0, -1)))
	require.NoError(t, err)
	cur, err := src.DailySolveCounts(context.Background(), user, activity.WindowEnding(today))
	require.NoError(t, err)

	assert.Equal(t, prev[1:], cur[:len(cur)-1])
	assert.Equal(t, src.CountOn(user, today), cur[len(cur)-1])
}

func TestActivitySource_UsersDiffer(t *testing.T) {
	src := NewActivitySource(1)
	window := activity.WindowEnding(today)

	a, err := src.DailySolveCounts(context.Background(), uuid.New(), window)
	require.NoError(t, err)
	b, err := src.DailySolveCounts(context.Background(), uuid.New(), window)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestActivitySource_ActivityRate(t *testing.T) {
	window := activity.WindowEnding(today)
	counts, err := NewActivitySource(99).DailySolveCounts(context.Background(), uuid.New(), window)
	require.NoError(t, err)

	active := 0
	for _, c := range counts {
		if c > 0 {
			active++
		}
	}
	// expected about 0.7*261 + 0.4*104 = 224
	assert.Greater(t, active, 150)
	assert.Less(t, active, 300)
}

func TestActivitySource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewActivitySource(1).DailySolveCounts(ctx, uuid.New(), activity.WindowEnding(today))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReference(t *testing.T) {
	ref := NewReference()
	ctx := context.Background()
	id := uuid.New()

	stats, err := ref.GetUserStats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, stats.UserID)
	assert.Equal(t, stats.EasySolved+stats.MediumSolved+stats.HardSolved, stats.TotalSolved)
	assert.Equal(t, 900, progress.Calculate(stats).XP)

	topics, err := ref.ListTopics(ctx, id)
	require.NoError(t, err)
	assert.Len(t, topics, 13)
	assert.Equal(t, "classical-mechanics", topics[0].Slug)

	roster, err := ref.TopRoster(ctx, 3)
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, "Dr. Sarah Chen", roster[0].DisplayName)

	all, err := ref.TopRoster(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, all[0].UserID, ReferenceRoster()[0].UserID)

	none, err := ref.TopRoster(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, none)
}
