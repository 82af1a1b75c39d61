package achievement

import "github.com/physics-hub/practice-hub/internal/domain/shared"

// Catalog keys.
const (
	KeyFirstSteps        = "first_steps"
	KeyProblemSolver     = "problem_solver"
	KeyConsistentLearner = "consistent_learner"
	KeyTopicMaster       = "topic_master"
	KeySpeedDemon        = "speed_demon"
	KeyHardHitter        = "hard_hitter"
)

// Thresholds of the default catalog.
const (
	FirstStepsSolved     = 1
	ProblemSolverSolved  = 10
	ConsistentStreakDays = 7
	TopicMasterPercent   = 80
	SpeedDemonDaily      = 5
	HardHitterSolved     = 10
)

var (
	errNoCalendar = shared.NewDomainError("achievement", "Evaluate", shared.ErrMissingData, "activity calendar not supplied")
	errNoTopics   = shared.NewDomainError("achievement", "Evaluate", shared.ErrMissingData, "topic progress not supplied")
)

// DefaultCatalog returns a fresh copy of the reference achievement set.
// Every predicate is monotonic: more solves never lock an achievement.
func DefaultCatalog() []Definition {
	return []Definition{
		{
			Key:         KeyFirstSteps,
			Title:       "First Steps",
			Description: "Solved your first problem",
			RewardXP:    10,
			Predicate:   totalSolvedAtLeast(FirstStepsSolved),
		},
		{
			Key:         KeyProblemSolver,
			Title:       "Problem Solver",
			Description: "Solved 10 problems",
			RewardXP:    50,
			Predicate:   totalSolvedAtLeast(ProblemSolverSolved),
		},
		{
			Key:         KeyConsistentLearner,
			Title:       "Consistent Learner",
			Description: "7-day solving streak",
			RewardXP:    100,
			Predicate: func(s Snapshot) (bool, error) {
				return s.Stats.StreakDays >= ConsistentStreakDays, nil
			},
		},
		{
			Key:         KeyTopicMaster,
			Title:       "Topic Master",
			Description: "Complete a topic with 80%+",
			RewardXP:    200,
			Predicate:   topicMaster,
		},
		{
			Key:         KeySpeedDemon,
			Title:       "Speed Demon",
			Description: "Solve 5 problems in one day",
			RewardXP:    75,
			Predicate: func(s Snapshot) (bool, error) {
				if s.Calendar == nil {
					return false, errNoCalendar
				}
				return s.Calendar.BestDay() >= SpeedDemonDaily, nil
			},
		},
		{
			Key:         KeyHardHitter,
			Title:       "Hard Hitter",
			Description: "Solve 10 hard problems",
			RewardXP:    500,
			Predicate: func(s Snapshot) (bool, error) {
				return s.Stats.HardSolved >= HardHitterSolved, nil
			},
		},
	}
}

func totalSolvedAtLeast(n int) Predicate {
	return func(s Snapshot) (bool, error) {
		return s.Stats.TotalSolved >= n, nil
	}
}

func topicMaster(s Snapshot) (bool, error) {
	if s.Topics == nil {
		return false, errNoTopics
	}
	for _, t := range s.Topics {
		if t.ProgressPercent() >= TopicMasterPercent {
			return true, nil
		}
	}
	return false, nil
}
