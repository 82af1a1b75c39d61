package synthetic

import (
	"context"

	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/domain/progress"
)

// Reference serves a fixed demo profile to every user, plus a fixed global
// roster. It satisfies the dashboard's stats and roster dependencies.
type Reference struct{}

// NewReference creates the reference provider.
func NewReference() *Reference {
	return &Reference{}
}

// GetUserStats returns the demo counters for userID.
func (r *Reference) GetUserStats(ctx context.Context, userID uuid.UUID) (progress.UserStats, error) {
	if err := ctx.Err(); err != nil {
		return progress.UserStats{}, err
	}
	stats := ReferenceStats()
	stats.UserID = userID
	return stats, nil
}

// ListTopics returns the demo topic progress in catalog order.
func (r *Reference) ListTopics(ctx context.Context, _ uuid.UUID) ([]leaderboard.TopicRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReferenceTopics(), nil
}

// TopRoster returns up to limit rows of the demo roster.
func (r *Reference) TopRoster(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	roster := ReferenceRoster()
	if limit < 0 {
		limit = 0
	}
	if limit < len(roster) {
		roster = roster[:limit]
	}
	return roster, nil
}

// ReferenceStats is the demo user's counters.
func ReferenceStats() progress.UserStats {
	return progress.UserStats{
		DisplayName:    "You",
		EasySolved:     25,
		MediumSolved:   18,
		HardSolved:     4,
		EasyTotal:      800,
		MediumTotal:    700,
		HardTotal:      300,
		TotalSolved:    47,
		TotalProblems:  1800,
		Rank:           1247,
		TotalUsers:     12000,
		StreakDays:     12,
		AcceptanceRate: 78.4,
	}
}

// ReferenceTopics is the demo user's progress over the topic catalog.
func ReferenceTopics() []leaderboard.TopicRecord {
	return []leaderboard.TopicRecord{
		leaderboard.NewTopicRecord("Classical Mechanics", 15, 25, 275, leaderboard.RankExpert),
		leaderboard.NewTopicRecord("Electromagnetism", 12, 20, 220, leaderboard.RankAdvanced),
		leaderboard.NewTopicRecord("Quantum Mechanics", 8, 18, 150, leaderboard.RankIntermediate),
		leaderboard.NewTopicRecord("Thermodynamics", 7, 15, 125, leaderboard.RankIntermediate),
		leaderboard.NewTopicRecord("Electrodynamics", 5, 16, 100, leaderboard.RankBeginner),
		leaderboard.NewTopicRecord("Atomic Physics", 4, 14, 85, leaderboard.RankBeginner),
		leaderboard.NewTopicRecord("Particle Physics", 3, 17, 75, leaderboard.RankBeginner),
		leaderboard.NewTopicRecord("Nuclear Physics", 2, 12, 50, leaderboard.RankBeginner),
		leaderboard.NewTopicRecord("Statistical Mechanics", 3, 12, 75, leaderboard.RankBeginner),
		leaderboard.NewTopicRecord("Special Relativity", 1, 9, 25, leaderboard.RankNovice),
		leaderboard.NewTopicRecord("General Relativity", 0, 8, 0, leaderboard.RankNovice),
		leaderboard.NewTopicRecord("Astronomy", 2, 11, 45, leaderboard.RankBeginner),
		leaderboard.NewTopicRecord("Astrophysics", 1, 13, 25, leaderboard.RankNovice),
	}
}

// ReferenceRoster is the demo global top five. IDs are stable name-based UUIDs.
func ReferenceRoster() []leaderboard.Entry {
	rows := []struct {
		name   string
		xp     int
		level  int
		solved int
	}{
		{"Dr. Sarah Chen", 8450, 42, 234},
		{"Prof. Michael Kumar", 7890, 39, 198},
		{"Alex Rodriguez", 7234, 36, 187},
		{"Dr. Emily Watson", 6789, 33, 176},
		{"James Thompson", 6234, 31, 165},
	}

	out := make([]leaderboard.Entry, len(rows))
	for i, r := range rows {
		out[i] = leaderboard.Entry{
			Rank:        leaderboard.Rank(i + 1),
			UserID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte("practice-hub/roster/"+r.name)),
			DisplayName: r.name,
			XP:          r.xp,
			Level:       r.level,
			SolvedCount: r.solved,
		}
	}
	return out
}
