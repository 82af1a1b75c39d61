package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Source produces one solve count per day of a window.
// Implementations live in the infrastructure layer (PostgreSQL history,
// seeded synthetic generator). The returned slice must contain exactly
// window.Days() entries, oldest first; BuildCalendar rejects anything else.
type Source interface {
	DailySolveCounts(ctx context.Context, userID uuid.UUID, window Window) ([]int, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, userID uuid.UUID, window Window) ([]int, error)

// DailySolveCounts implements Source.
func (f SourceFunc) DailySolveCounts(ctx context.Context, userID uuid.UUID, window Window) ([]int, error) {
	return f(ctx, userID, window)
}

// Load asks src for the counts of the window ending today and builds the calendar.
func Load(ctx context.Context, src Source, userID uuid.UUID, today time.Time) (*Calendar, error) {
	window := WindowEnding(today)
	counts, err := src.DailySolveCounts(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	return BuildCalendar(window.To, counts)
}
