// Package achievement evaluates unlockable badges against a user's progress.
package achievement

import (
	"errors"

	"github.com/physics-hub/practice-hub/internal/domain/activity"
	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/domain/progress"
	"github.com/physics-hub/practice-hub/internal/domain/shared"
	"github.com/physics-hub/practice-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is the data a predicate may inspect.
// A nil Calendar or Topics means the caller did not supply it.
type Snapshot struct {
	Stats    progress.UserStats
	Calendar *activity.Calendar
	Topics   []leaderboard.TopicRecord
}

// Predicate decides whether an achievement is unlocked.
// It returns shared.ErrMissingData when the snapshot lacks what it needs.
type Predicate func(Snapshot) (bool, error)

// Definition is a catalog entry.
type Definition struct {
	Key         string
	Title       string
	Description string
	RewardXP    int
	Predicate   Predicate
}

// Achievement is an evaluated catalog entry.
type Achievement struct {
	Key         string
	Title       string
	Description string
	RewardXP    int
	Unlocked    bool
}

// Result is the outcome of evaluating a whole catalog.
type Result struct {
	// Achievements are in catalog order.
	Achievements  []Achievement
	UnlockedCount int
	TotalCount    int
	// EarnedXP is the reward sum of unlocked achievements.
	EarnedXP int
}

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATOR
// ══════════════════════════════════════════════════════════════════════════════

// Evaluator runs catalog predicates. It is safe for concurrent use.
type Evaluator struct {
	log *logger.Logger
}

// NewEvaluator creates an evaluator. A nil logger discards output.
func NewEvaluator(log *logger.Logger) *Evaluator {
	if log == nil {
		log = logger.Nop()
	}
	return &Evaluator{log: log.With(logger.Component("achievement_evaluator"))}
}

// Evaluate checks every definition independently. Predicates that fail or
// panic leave their achievement locked; Evaluate itself never fails.
func (e *Evaluator) Evaluate(catalog []Definition, snap Snapshot) Result {
	res := Result{
		Achievements: make([]Achievement, 0, len(catalog)),
		TotalCount:   len(catalog),
	}

	for _, def := range catalog {
		unlocked := e.check(def, snap)

		res.Achievements = append(res.Achievements, Achievement{
			Key:         def.Key,
			Title:       def.Title,
			Description: def.Description,
			RewardXP:    def.RewardXP,
			Unlocked:    unlocked,
		})
		if unlocked {
			res.UnlockedCount++
			res.EarnedXP += def.RewardXP
		}
	}

	return res
}

func (e *Evaluator) check(def Definition, snap Snapshot) (unlocked bool) {
	if def.Predicate == nil {
		e.log.Warn("achievement has no predicate", logger.AchievementKey(def.Key))
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("achievement predicate panicked",
				logger.AchievementKey(def.Key),
				logger.Any("panic", r),
			)
			unlocked = false
		}
	}()

	ok, err := def.Predicate(snap)
	switch {
	case err == nil:
		return ok
	case errors.Is(err, shared.ErrMissingData):
		e.log.Info("achievement locked: input not supplied",
			logger.AchievementKey(def.Key),
			logger.Err(err),
		)
	default:
		e.log.Warn("achievement predicate failed",
			logger.AchievementKey(def.Key),
			logger.Err(err),
		)
	}
	return false
}
