// Package progress turns a user's raw solve counters into experience points,
// levels and titles.
package progress

import (
	"github.com/google/uuid"
	"github.com/physics-hub/practice-hub/internal/domain/shared"
)

// UserStats is a per-user snapshot of aggregate counters.
// TotalSolved is expected to equal EasySolved+MediumSolved+HardSolved; callers
// supply a consistent snapshot, nothing here enforces it.
type UserStats struct {
	UserID      uuid.UUID
	DisplayName string

	EasySolved   int
	MediumSolved int
	HardSolved   int

	// Per-difficulty catalog sizes, used only by Breakdown.
	EasyTotal   int
	MediumTotal int
	HardTotal   int

	TotalSolved   int
	TotalProblems int

	// Rank is the global position supplied by the ranking backend.
	Rank       int
	TotalUsers int

	StreakDays     int
	AcceptanceRate float64
}

// CompletionPercent returns round(100 * TotalSolved / TotalProblems).
func (s UserStats) CompletionPercent() int {
	return shared.Percent(s.TotalSolved, s.TotalProblems)
}

// TopPercent returns the "Top N%" figure for the user's global rank.
func (s UserStats) TopPercent() int {
	return shared.Percent(s.Rank, s.TotalUsers)
}

// Difficulty is a problem difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Points returns the XP awarded for one solved problem of this difficulty.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyEasy:
		return PointsEasy
	case DifficultyMedium:
		return PointsMedium
	case DifficultyHard:
		return PointsHard
	default:
		return 0
	}
}

// DifficultyProgress is one row of the difficulty breakdown.
type DifficultyProgress struct {
	Difficulty Difficulty
	Solved     int
	Total      int
	Percent    int
	XP         int
}

// Breakdown returns easy, medium and hard progress in that order.
func Breakdown(s UserStats) []DifficultyProgress {
	rows := []struct {
		d             Difficulty
		solved, total int
	}{
		{DifficultyEasy, s.EasySolved, s.EasyTotal},
		{DifficultyMedium, s.MediumSolved, s.MediumTotal},
		{DifficultyHard, s.HardSolved, s.HardTotal},
	}

	out := make([]DifficultyProgress, 0, len(rows))
	for _, r := range rows {
		out = append(out, DifficultyProgress{
			Difficulty: r.d,
			Solved:     r.solved,
			Total:      r.total,
			Percent:    shared.Percent(r.solved, r.total),
			XP:         r.solved * r.d.Points(),
		})
	}
	return out
}
