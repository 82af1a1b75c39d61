package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/domain/progress"
	"github.com/physics-hub/practice-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEVEL QUERY
// Lightweight variant of the dashboard: leveling numbers only.
// ══════════════════════════════════════════════════════════════════════════════

// GetLevelQuery asks for a user's level.
type GetLevelQuery struct {
	UserID uuid.UUID
}

// LevelView is the leveling calculator output for one user.
type LevelView struct {
	UserID           string  `json:"user_id"`
	XP               int     `json:"xp"`
	Level            int     `json:"level"`
	Title            string  `json:"title"`
	XPIntoLevel      int     `json:"xp_into_level"`
	XPForNextLevel   int     `json:"xp_for_next_level"`
	ProgressFraction float64 `json:"progress_fraction"`
}

// GetLevelHandler serves GetLevelQuery.
type GetLevelHandler struct {
	stats StatsProvider
}

// NewGetLevelHandler creates the handler.
func NewGetLevelHandler(stats StatsProvider) *GetLevelHandler {
	return &GetLevelHandler{stats: stats}
}

// Handle loads the user's counters and computes the level.
func (h *GetLevelHandler) Handle(ctx context.Context, q GetLevelQuery) (*LevelView, error) {
	if q.UserID == uuid.Nil {
		return nil, shared.ErrMissingUserID
	}

	stats, err := h.stats.GetUserStats(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	info := progress.Calculate(stats)
	return &LevelView{
		UserID:           q.UserID.String(),
		XP:               info.XP,
		Level:            info.Level,
		Title:            info.Title,
		XPIntoLevel:      info.XPIntoLevel,
		XPForNextLevel:   info.XPForNextLevel,
		ProgressFraction: info.ProgressFraction,
	}, nil
}
