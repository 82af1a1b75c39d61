package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/domain/activity"
	"github.com/physics-hub/practice-hub/internal/domain/shared"
)

// ActivityRepository stores solve history and serves it as an activity.Source.
type ActivityRepository struct {
	conn *Connection
}

// NewActivityRepository creates an ActivityRepository.
func NewActivityRepository(conn *Connection) *ActivityRepository {
	return &ActivityRepository{conn: conn}
}

// dayCount is one grouped row of solve_events.
type dayCount struct {
	Day   time.Time
	Count int
}

// DailySolveCounts counts solves per calendar day of the window, in the
// window's time zone. Days with no solves are zero.
func (r *ActivityRepository) DailySolveCounts(ctx context.Context, userID uuid.UUID, window activity.Window) ([]int, error) {
	loc := window.From.Location()
	end := window.To.AddDate(0, 0, 1)

	rows, err := r.conn.Query(ctx, `
		SELECT (solved_at AT TIME ZONE $4)::date AS day, count(*)
		FROM solve_events
		WHERE user_id = $1 AND solved_at >= $2 AND solved_at < $3
		GROUP BY day
	`, userID, window.From, end, zoneName(loc))
	if err != nil {
		return nil, shared.WrapError("postgres", "DailySolveCounts", shared.ErrExternalService, "failed to query solve history", err)
	}
	defer rows.Close()

	var grouped []dayCount
	for rows.Next() {
		var dc dayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan solve history row: %w", err)
		}
		grouped = append(grouped, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("postgres", "DailySolveCounts", shared.ErrExternalService, "failed to read solve history", err)
	}

	return densify(window, grouped), nil
}

// RecordSolve stores a solve. It reports false when the user had already
// solved the problem; each problem counts once.
func (r *ActivityRepository) RecordSolve(ctx context.Context, userID uuid.UUID, problemID string, solvedAt time.Time) (bool, error) {
	tag, err := r.conn.Exec(ctx, `
		INSERT INTO solve_events (user_id, problem_id, solved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, problem_id) DO NOTHING
	`, userID, problemID, solvedAt)
	if IsForeignKeyViolation(err) {
		return false, shared.ErrUserNotFound
	}
	if err != nil {
		return false, shared.WrapError("postgres", "RecordSolve", shared.ErrExternalService, "failed to record solve", err)
	}
	return tag.RowsAffected() > 0, nil
}

// densify spreads grouped day counts over the window, one slot per day.
// Postgres returns DATE values as UTC midnight; they are re-anchored in the
// window's location before indexing. Days outside the window are dropped.
func densify(window activity.Window, grouped []dayCount) []int {
	loc := window.From.Location()
	counts := make([]int, window.Days())
	for _, dc := range grouped {
		day := time.Date(dc.Day.Year(), dc.Day.Month(), dc.Day.Day(), 0, 0, 0, 0, loc)
		if i, ok := window.IndexOf(day); ok {
			counts[i] += dc.Count
		}
	}
	return counts
}

// zoneName returns an IANA name Postgres understands.
func zoneName(loc *time.Location) string {
	if loc == nil || loc.String() == "Local" {
		return "UTC"
	}
	return loc.String()
}
