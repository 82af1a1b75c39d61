package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/domain/progress"
	"github.com/physics-hub/practice-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// StatsRepository reads aggregate counters and topic progress.
type StatsRepository struct {
	conn *Connection
}

// NewStatsRepository creates a StatsRepository.
func NewStatsRepository(conn *Connection) *StatsRepository {
	return &StatsRepository{conn: conn}
}

// GetUserStats returns the user's counters. A user without a user_stats row
// gets zero counters; an unknown user is shared.ErrUserNotFound.
func (r *StatsRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (progress.UserStats, error) {
	s := progress.UserStats{UserID: userID}

	err := r.conn.QueryRow(ctx, `
		SELECT u.display_name,
		       COALESCE(s.easy_solved, 0), COALESCE(s.medium_solved, 0), COALESCE(s.hard_solved, 0),
		       COALESCE(s.easy_total, 0), COALESCE(s.medium_total, 0), COALESCE(s.hard_total, 0),
		       COALESCE(s.total_solved, 0), COALESCE(s.total_problems, 0),
		       COALESCE(s.global_rank, 0), COALESCE(s.total_users, 0),
		       COALESCE(s.streak_days, 0), COALESCE(s.acceptance_rate, 0)::float8
		FROM users u
		LEFT JOIN user_stats s ON s.user_id = u.id
		WHERE u.id = $1
	`, userID).Scan(
		&s.DisplayName,
		&s.EasySolved, &s.MediumSolved, &s.HardSolved,
		&s.EasyTotal, &s.MediumTotal, &s.HardTotal,
		&s.TotalSolved, &s.TotalProblems,
		&s.Rank, &s.TotalUsers,
		&s.StreakDays, &s.AcceptanceRate,
	)
	if IsNoRows(err) {
		return progress.UserStats{}, shared.ErrUserNotFound
	}
	if err != nil {
		return progress.UserStats{}, shared.WrapError("postgres", "GetUserStats", shared.ErrExternalService, "failed to load user stats", err)
	}
	return s, nil
}

// ListTopics returns every catalog topic in position order with the user's
// progress. Topics the user never touched come back with zero progress.
func (r *StatsRepository) ListTopics(ctx context.Context, userID uuid.UUID) ([]leaderboard.TopicRecord, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT t.name, COALESCE(p.solved, 0), t.total_problems, COALESCE(p.xp, 0), COALESCE(p.rank_label, 'Novice')
		FROM topics t
		LEFT JOIN user_topic_progress p ON p.topic_id = t.id AND p.user_id = $1
		ORDER BY t.position, t.id
	`, userID)
	if err != nil {
		return nil, shared.WrapError("postgres", "ListTopics", shared.ErrExternalService, "failed to query topics", err)
	}
	defer rows.Close()

	topics := make([]leaderboard.TopicRecord, 0, 16)
	for rows.Next() {
		var (
			name              string
			solved, total, xp int
			label             string
		)
		if err := rows.Scan(&name, &solved, &total, &xp, &label); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, leaderboard.NewTopicRecord(name, solved, total, xp, leaderboard.RankLabel(label)))
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("postgres", "ListTopics", shared.ErrExternalService, "failed to read topics", err)
	}
	return topics, nil
}
