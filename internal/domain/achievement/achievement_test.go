package achievement

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physics-hub/practice-hub/internal/domain/activity"
	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/domain/progress"
	"github.com/physics-hub/practice-hub/pkg/logger"
)

var today = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func calendarWithBest(t *testing.T, best int) *activity.Calendar {
	t.Helper()
	counts := make([]int, activity.CalendarDays)
	counts[200] = best
	cal, err := activity.BuildCalendar(today, counts)
	require.NoError(t, err)
	return cal
}

func referenceSnapshot(t *testing.T) Snapshot {
	return Snapshot{
		Stats: progress.UserStats{
			EasySolved: 25, MediumSolved: 18, HardSolved: 4,
			TotalSolved: 47,
			StreakDays:  12,
		},
		Calendar: calendarWithBest(t, 5),
		Topics: []leaderboard.TopicRecord{
			leaderboard.NewTopicRecord("Classical Mechanics", 15, 25, 275, leaderboard.RankExpert),
			leaderboard.NewTopicRecord("Electromagnetism", 12, 20, 220, leaderboard.RankAdvanced),
		},
	}
}

func bufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.New(logger.Options{Output: buf, Level: logger.LevelDebug}), buf
}

func unlockedKeys(res Result) []string {
	var keys []string
	for _, a := range res.Achievements {
		if a.Unlocked {
			keys = append(keys, a.Key)
		}
	}
	return keys
}

func TestEvaluate_ReferenceUser(t *testing.T) {
	res := NewEvaluator(nil).Evaluate(DefaultCatalog(), referenceSnapshot(t))

	assert.Equal(t, 6, res.TotalCount)
	assert.Equal(t, 4, res.UnlockedCount)
	assert.Equal(t, []string{KeyFirstSteps, KeyProblemSolver, KeyConsistentLearner, KeySpeedDemon}, unlockedKeys(res))
	assert.Equal(t, 10+50+100+75, res.EarnedXP)

	// catalog order preserved
	require.Len(t, res.Achievements, 6)
	assert.Equal(t, "First Steps", res.Achievements[0].Title)
	assert.Equal(t, "Hard Hitter", res.Achievements[5].Title)
	assert.Equal(t, 500, res.Achievements[5].RewardXP)
}

func TestEvaluate_NewUser(t *testing.T) {
	res := NewEvaluator(nil).Evaluate(DefaultCatalog(), Snapshot{
		Calendar: calendarWithBest(t, 0),
		Topics:   []leaderboard.TopicRecord{},
	})

	assert.Zero(t, res.UnlockedCount)
	assert.Zero(t, res.EarnedXP)
	assert.Equal(t, 6, res.TotalCount)
}

func TestEvaluate_TopicMaster(t *testing.T) {
	snap := referenceSnapshot(t)
	snap.Topics = append(snap.Topics, leaderboard.NewTopicRecord("Thermodynamics", 12, 15, 300, leaderboard.RankExpert))

	res := NewEvaluator(nil).Evaluate(DefaultCatalog(), snap)
	assert.Contains(t, unlockedKeys(res), KeyTopicMaster)
}

func TestEvaluate_MissingDataFailsClosed(t *testing.T) {
	log, buf := bufferLogger()
	snap := referenceSnapshot(t)
	snap.Calendar = nil
	snap.Topics = nil

	res := NewEvaluator(log).Evaluate(DefaultCatalog(), snap)

	assert.NotContains(t, unlockedKeys(res), KeySpeedDemon)
	assert.NotContains(t, unlockedKeys(res), KeyTopicMaster)
	assert.Equal(t, 3, res.UnlockedCount)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"level":"INFO"`))
	assert.Contains(t, out, KeySpeedDemon)
	assert.Contains(t, out, KeyTopicMaster)
}

func TestEvaluate_PredicateErrorsAndPanics(t *testing.T) {
	log, buf := bufferLogger()
	catalog := []Definition{
		{Key: "boom", RewardXP: 5, Predicate: func(Snapshot) (bool, error) { return true, errors.New("boom") }},
		{Key: "panic", RewardXP: 5, Predicate: func(Snapshot) (bool, error) { panic("bad predicate") }},
		{Key: "nil", RewardXP: 5},
		{Key: "ok", RewardXP: 7, Predicate: func(Snapshot) (bool, error) { return true, nil }},
	}

	var res Result
	assert.NotPanics(t, func() { res = NewEvaluator(log).Evaluate(catalog, Snapshot{}) })

	assert.Equal(t, []string{"ok"}, unlockedKeys(res))
	assert.Equal(t, 7, res.EarnedXP)
	assert.Equal(t, 4, res.TotalCount)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"level":"ERROR"`)
}

func TestEvaluate_EmptyCatalog(t *testing.T) {
	res := NewEvaluator(nil).Evaluate(nil, Snapshot{})
	assert.Empty(t, res.Achievements)
	assert.Zero(t, res.TotalCount)
}

func TestDefaultCatalog_Monotonic(t *testing.T) {
	ev := NewEvaluator(nil)
	snap := Snapshot{Calendar: calendarWithBest(t, 0), Topics: []leaderboard.TopicRecord{}}
	prev := map[string]bool{}

	for i := 0; i < 30; i++ {
		snap.Stats.EasySolved++
		snap.Stats.HardSolved++
		snap.Stats.TotalSolved += 2
		snap.Stats.StreakDays++

		res := ev.Evaluate(DefaultCatalog(), snap)
		for _, a := range res.Achievements {
			if prev[a.Key] {
				assert.True(t, a.Unlocked, "%s relocked at step %d", a.Key, i)
			}
			prev[a.Key] = a.Unlocked
		}
	}
	assert.True(t, prev[KeyHardHitter])
	assert.True(t, prev[KeyConsistentLearner])
}

func TestDefaultCatalog_FreshCopy(t *testing.T) {
	a := DefaultCatalog()
	a[0].Title = "changed"
	assert.Equal(t, "First Steps", DefaultCatalog()[0].Title)
}
