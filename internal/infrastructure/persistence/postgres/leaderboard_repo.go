package postgres

import (
	"context"
	"fmt"

	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/domain/shared"
)

// LeaderboardRepository reads the externally ranked global roster.
type LeaderboardRepository struct {
	conn *Connection
}

// NewLeaderboardRepository creates a LeaderboardRepository.
func NewLeaderboardRepository(conn *Connection) *LeaderboardRepository {
	return &LeaderboardRepository{conn: conn}
}

// TopRoster returns the first limit roster rows ordered by rank.
func (r *LeaderboardRepository) TopRoster(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		return []leaderboard.Entry{}, nil
	}

	rows, err := r.conn.Query(ctx, `
		SELECT rank, user_id, display_name, xp, level, solved
		FROM leaderboard_roster
		ORDER BY rank
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, shared.WrapError("postgres", "TopRoster", shared.ErrExternalService, "failed to query roster", err)
	}
	defer rows.Close()

	entries := make([]leaderboard.Entry, 0, limit)
	for rows.Next() {
		var (
			e    leaderboard.Entry
			rank int
		)
		if err := rows.Scan(&rank, &e.UserID, &e.DisplayName, &e.XP, &e.Level, &e.SolvedCount); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		e.Rank = leaderboard.Rank(rank)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("postgres", "TopRoster", shared.ErrExternalService, "failed to read roster", err)
	}
	return entries, nil
}
