// Package synthetic provides deterministic stand-in data for running the hub
// without a database: a generated solve history and a reference profile.
package synthetic

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/domain/activity"
	"github.com/physics-hub/practice-hub/pkg/timeutil"
)

// Generation odds for a single day.
const (
	weekdayActiveChance = 0.7
	weekdayMaxSolves    = 5
	weekendActiveChance = 0.4
	weekendMaxSolves    = 3
)

// ActivitySource generates a plausible yearly solve history.
// The count of a given day depends only on the seed, the user and the date,
// so a user's calendar stays stable as the window slides forward.
type ActivitySource struct {
	seed uint64
}

// NewActivitySource creates a generator for seed.
func NewActivitySource(seed int64) *ActivitySource {
	return &ActivitySource{seed: uint64(seed)}
}

// DailySolveCounts implements activity.Source.
func (s *ActivitySource) DailySolveCounts(ctx context.Context, userID uuid.UUID, window activity.Window) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := s.userSeed(userID)
	counts := make([]int, window.Days())
	for i := range counts {
		counts[i] = s.countFor(base, window.DayAt(i))
	}
	return counts, nil
}

// CountOn returns the generated count for one day.
func (s *ActivitySource) CountOn(userID uuid.UUID, day time.Time) int {
	return s.countFor(s.userSeed(userID), day)
}

func (s *ActivitySource) userSeed(userID uuid.UUID) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(userID[:])
	return s.seed ^ h.Sum64()
}

func (s *ActivitySource) countFor(base uint64, day time.Time) int {
	r := rand.New(rand.NewPCG(base, dayNumber(day)))

	chance, maxSolves := weekdayActiveChance, weekdayMaxSolves
	if timeutil.IsWeekend(day) {
		chance, maxSolves = weekendActiveChance, weekendMaxSolves
	}
	if r.Float64() < chance {
		return 1 + r.IntN(maxSolves)
	}
	return 0
}

// dayNumber identifies a calendar date independently of its location.
func dayNumber(day time.Time) uint64 {
	y, m, d := day.Date()
	return uint64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
