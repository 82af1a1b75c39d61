package query

import (
	"github.com/physics-hub/practice-hub/internal/domain/achievement"
)

// CatalogView lists every achievement a user can earn.
type CatalogView struct {
	Achievements []AchievementDTO `json:"achievements"`
	TotalCount   int              `json:"total_count"`
	TotalXP      int              `json:"total_xp"`
}

// ListAchievementsHandler serves the achievement catalog.
type ListAchievementsHandler struct {
	catalog []achievement.Definition
}

// NewListAchievementsHandler creates the handler. A nil catalog uses the default one.
func NewListAchievementsHandler(catalog []achievement.Definition) *ListAchievementsHandler {
	if catalog == nil {
		catalog = achievement.DefaultCatalog()
	}
	return &ListAchievementsHandler{catalog: catalog}
}

// Handle returns the catalog with every entry locked.
func (h *ListAchievementsHandler) Handle() CatalogView {
	view := CatalogView{
		Achievements: make([]AchievementDTO, len(h.catalog)),
		TotalCount:   len(h.catalog),
	}
	for i, d := range h.catalog {
		view.Achievements[i] = AchievementDTO{
			Key:         d.Key,
			Title:       d.Title,
			Description: d.Description,
			RewardXP:    d.RewardXP,
		}
		view.TotalXP += d.RewardXP
	}
	return view
}
