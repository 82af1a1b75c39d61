// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
package query

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/physics-hub/practice-hub/internal/domain/achievement"
	"github.com/physics-hub/practice-hub/internal/domain/activity"
	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/domain/progress"
	"github.com/physics-hub/practice-hub/internal/domain/shared"
	"github.com/physics-hub/practice-hub/pkg/logger"
	"github.com/physics-hub/practice-hub/pkg/timeutil"
)

// StatsProvider loads a user's aggregate counters and per-topic progress.
type StatsProvider interface {
	GetUserStats(ctx context.Context, userID uuid.UUID) (progress.UserStats, error)
	// ListTopics returns topics in catalog order.
	ListTopics(ctx context.Context, userID uuid.UUID) ([]leaderboard.TopicRecord, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery asks for the full progress dashboard of one user.
type GetDashboardQuery struct {
	UserID uuid.UUID
}

// Validate checks the query parameters.
func (q GetDashboardQuery) Validate() error {
	if q.UserID == uuid.Nil {
		return shared.ErrMissingUserID
	}
	return nil
}

// DashboardView is everything the dashboard renders.
type DashboardView struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`

	// Leveling
	XP               int     `json:"xp"`
	Level            int     `json:"level"`
	Title            string  `json:"title"`
	XPIntoLevel      int     `json:"xp_into_level"`
	XPForNextLevel   int     `json:"xp_for_next_level"`
	ProgressFraction float64 `json:"progress_fraction"`

	// Counters
	TotalSolved       int                     `json:"total_solved"`
	TotalProblems     int                     `json:"total_problems"`
	CompletionPercent int                     `json:"completion_percent"`
	StreakDays        int                     `json:"streak_days"`
	AcceptanceRate    float64                 `json:"acceptance_rate"`
	GlobalRank        int                     `json:"global_rank"`
	TotalUsers        int                     `json:"total_users"`
	TopPercent        int                     `json:"top_percent"`
	Breakdown         []DifficultyProgressDTO `json:"breakdown"`

	// Activity
	Calendar           []CalendarDayDTO `json:"calendar"`
	TotalContributions int              `json:"total_contributions"`
	AveragePerWeek     int              `json:"average_per_week"`
	BestDay            int              `json:"best_day"`
	ActiveDays         int              `json:"active_days"`

	// Topics
	RankedTopics []TopicDTO `json:"ranked_topics"`
	TopTopics    []TopicDTO `json:"top_topics"`
	AllTopics    []TopicDTO `json:"all_topics"`

	Leaderboard []LeaderboardEntryDTO `json:"leaderboard"`

	// Achievements
	Achievements  []AchievementDTO `json:"achievements"`
	UnlockedCount int              `json:"unlocked_count"`
	TotalCount    int              `json:"total_count"`
	EarnedXP      int              `json:"earned_xp"`

	GeneratedAt time.Time `json:"generated_at"`
}

// DifficultyProgressDTO is one row of the difficulty breakdown.
type DifficultyProgressDTO struct {
	Difficulty string `json:"difficulty"`
	Solved     int    `json:"solved"`
	Total      int    `json:"total"`
	Percent    int    `json:"percent"`
	XP         int    `json:"xp"`
}

// CalendarDayDTO is one contribution calendar cell.
type CalendarDayDTO struct {
	Date      string `json:"date"`
	Count     int    `json:"count"`
	Day       int    `json:"day"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	Intensity string `json:"intensity"`
}

// TopicDTO is one topic's progress.
type TopicDTO struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Solved   int    `json:"solved"`
	Total    int    `json:"total"`
	Progress int    `json:"progress"`
	XP       int    `json:"xp"`
	Rank     string `json:"rank"`
}

// LeaderboardEntryDTO is one leaderboard row.
type LeaderboardEntryDTO struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	DisplayName   string `json:"display_name"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	Solved        int    `json:"solved"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}

// AchievementDTO is one evaluated achievement.
type AchievementDTO struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RewardXP    int    `json:"xp"`
	Unlocked    bool   `json:"unlocked"`
}

// DashboardOptions tunes the handler.
type DashboardOptions struct {
	// TopTopics is how many topics to highlight.
	TopTopics int
	// RosterSize is how many global leaderboard rows to fetch.
	RosterSize int
}

// DefaultDashboardOptions returns the reference sizes.
func DefaultDashboardOptions() DashboardOptions {
	return DashboardOptions{
		TopTopics:  leaderboard.DefaultTopTopics,
		RosterSize: leaderboard.DefaultRosterSize,
	}
}

// GetDashboardHandler assembles the dashboard from its collaborators.
type GetDashboardHandler struct {
	stats     StatsProvider
	activity  activity.Source
	roster    leaderboard.RosterProvider
	evaluator *achievement.Evaluator
	catalog   []achievement.Definition
	clock     timeutil.Clock
	opts      DashboardOptions
	log       *logger.Logger
}

// NewGetDashboardHandler creates the handler. A nil catalog uses the default one.
func NewGetDashboardHandler(
	stats StatsProvider,
	source activity.Source,
	roster leaderboard.RosterProvider,
	catalog []achievement.Definition,
	clock timeutil.Clock,
	opts DashboardOptions,
	log *logger.Logger,
) *GetDashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	if catalog == nil {
		catalog = achievement.DefaultCatalog()
	}
	if clock == nil {
		clock = timeutil.SystemClock(time.UTC)
	}
	if opts.TopTopics <= 0 {
		opts.TopTopics = leaderboard.DefaultTopTopics
	}
	if opts.RosterSize <= 0 {
		opts.RosterSize = leaderboard.DefaultRosterSize
	}

	log = log.With(logger.Component("dashboard_query"))
	return &GetDashboardHandler{
		stats:     stats,
		activity:  source,
		roster:    roster,
		evaluator: achievement.NewEvaluator(log),
		catalog:   catalog,
		clock:     clock,
		opts:      opts,
		log:       log,
	}
}

// Handle loads the inputs concurrently and runs the calculators over them.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	now := h.clock()
	log := h.log.With(logger.UserID(q.UserID.String()), logger.Operation("GetDashboard"))

	var (
		stats    progress.UserStats
		topics   []leaderboard.TopicRecord
		calendar *activity.Calendar
		roster   []leaderboard.Entry
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := h.stats.GetUserStats(gctx, q.UserID)
		if err != nil {
			return err
		}
		stats = s
		return nil
	})

	g.Go(func() error {
		t, err := h.stats.ListTopics(gctx, q.UserID)
		if err != nil {
			return err
		}
		if t == nil {
			t = []leaderboard.TopicRecord{}
		}
		topics = t
		return nil
	})

	g.Go(func() error {
		cal, err := activity.Load(gctx, h.activity, q.UserID, now)
		if err != nil {
			return err
		}
		calendar = cal
		return nil
	})

	g.Go(func() error {
		r, err := h.roster.TopRoster(gctx, h.opts.RosterSize)
		if err != nil {
			// The user's own row is still shown.
			log.Warn("roster unavailable", logger.Err(err))
			return nil
		}
		roster = r
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("dashboard load failed", logger.Err(err), logger.Latency(time.Since(start)))
		return nil, err
	}

	if stats.UserID == uuid.Nil {
		stats.UserID = q.UserID
	}

	view := h.compose(stats, topics, calendar, roster, now)

	log.Debug("dashboard composed",
		logger.XPAmount(view.XP),
		logger.LevelField(view.Level),
		logger.Int("unlocked", view.UnlockedCount),
		logger.Latency(time.Since(start)),
	)
	return view, nil
}

func (h *GetDashboardHandler) compose(
	stats progress.UserStats,
	topics []leaderboard.TopicRecord,
	calendar *activity.Calendar,
	roster []leaderboard.Entry,
	now time.Time,
) *DashboardView {
	info := progress.Calculate(stats)
	ranked := leaderboard.RankTopics(topics)
	merged := leaderboard.MergeLeaderboard(roster, leaderboard.CurrentUserFrom(stats))
	result := h.evaluator.Evaluate(h.catalog, achievement.Snapshot{
		Stats:    stats,
		Calendar: calendar,
		Topics:   topics,
	})

	top := leaderboard.TopTopics(topics, h.opts.TopTopics)

	return &DashboardView{
		UserID:      stats.UserID.String(),
		DisplayName: stats.DisplayName,

		XP:               info.XP,
		Level:            info.Level,
		Title:            info.Title,
		XPIntoLevel:      info.XPIntoLevel,
		XPForNextLevel:   info.XPForNextLevel,
		ProgressFraction: info.ProgressFraction,

		TotalSolved:       stats.TotalSolved,
		TotalProblems:     stats.TotalProblems,
		CompletionPercent: stats.CompletionPercent(),
		StreakDays:        stats.StreakDays,
		AcceptanceRate:    stats.AcceptanceRate,
		GlobalRank:        stats.Rank,
		TotalUsers:        stats.TotalUsers,
		TopPercent:        stats.TopPercent(),
		Breakdown:         toBreakdownDTOs(progress.Breakdown(stats)),

		Calendar:           toCalendarDTOs(calendar.Days()),
		TotalContributions: calendar.TotalContributions(),
		AveragePerWeek:     calendar.AveragePerWeek(),
		BestDay:            calendar.BestDay(),
		ActiveDays:         calendar.ActiveDays(),

		RankedTopics: toTopicDTOs(ranked),
		TopTopics:    toTopicDTOs(top),
		AllTopics:    toTopicDTOs(topics),

		Leaderboard: toLeaderboardDTOs(merged),

		Achievements:  toAchievementDTOs(result.Achievements),
		UnlockedCount: result.UnlockedCount,
		TotalCount:    result.TotalCount,
		EarnedXP:      result.EarnedXP,

		GeneratedAt: now,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAPPERS
// ══════════════════════════════════════════════════════════════════════════════

func toBreakdownDTOs(rows []progress.DifficultyProgress) []DifficultyProgressDTO {
	out := make([]DifficultyProgressDTO, len(rows))
	for i, r := range rows {
		out[i] = DifficultyProgressDTO{
			Difficulty: string(r.Difficulty),
			Solved:     r.Solved,
			Total:      r.Total,
			Percent:    r.Percent,
			XP:         r.XP,
		}
	}
	return out
}

func toCalendarDTOs(days []activity.Day) []CalendarDayDTO {
	out := make([]CalendarDayDTO, len(days))
	for i, d := range days {
		out[i] = CalendarDayDTO{
			Date:      timeutil.FormatDate(d.Date),
			Count:     d.SolveCount,
			Day:       d.Day,
			Month:     d.Month,
			Year:      d.Year,
			Intensity: string(d.Intensity()),
		}
	}
	return out
}

func toTopicDTOs(topics []leaderboard.TopicRecord) []TopicDTO {
	out := make([]TopicDTO, len(topics))
	for i, t := range topics {
		out[i] = TopicDTO{
			Name:     t.Name,
			Slug:     t.Slug,
			Solved:   t.Solved,
			Total:    t.Total,
			Progress: t.ProgressPercent(),
			XP:       t.XP,
			Rank:     t.RankLabel.String(),
		}
	}
	return out
}

func toLeaderboardDTOs(entries []leaderboard.Entry) []LeaderboardEntryDTO {
	out := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntryDTO{
			Rank:          int(e.Rank),
			UserID:        e.UserID.String(),
			DisplayName:   e.DisplayName,
			XP:            e.XP,
			Level:         e.Level,
			Solved:        e.SolvedCount,
			IsCurrentUser: e.IsCurrentUser,
		}
	}
	return out
}

func toAchievementDTOs(list []achievement.Achievement) []AchievementDTO {
	out := make([]AchievementDTO, len(list))
	for i, a := range list {
		out[i] = AchievementDTO{
			Key:         a.Key,
			Title:       a.Title,
			Description: a.Description,
			RewardXP:    a.RewardXP,
			Unlocked:    a.Unlocked,
		}
	}
	return out
}
