// Package jobs contains the scheduled jobs of the practice hub.
package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/physics-hub/practice-hub/pkg/logger"
	"github.com/physics-hub/practice-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// WARM ROSTER JOB
// ══════════════════════════════════════════════════════════════════════════════

// RosterWarmer reloads a cached roster from its source of truth.
type RosterWarmer interface {
	Warm(ctx context.Context, limit int) (int, error)
}

// WarmRosterConfig configures WarmRosterJob.
type WarmRosterConfig struct {
	// Limits are the roster sizes to keep warm.
	Limits []int

	// Timeout bounds a single run, retries included.
	Timeout time.Duration
}

// DefaultWarmRosterConfig warms the dashboard's top-five roster.
func DefaultWarmRosterConfig() WarmRosterConfig {
	return WarmRosterConfig{
		Limits:  []int{5},
		Timeout: 30 * time.Second,
	}
}

// WarmStats describes the last run.
type WarmStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Rows        int
	Failed      int
}

// WarmRosterJob refreshes the roster cache so dashboard reads stay hot.
type WarmRosterJob struct {
	warmer  RosterWarmer
	retrier *retry.Retrier
	log     *logger.Logger
	config  WarmRosterConfig

	lastStats atomic.Pointer[WarmStats]
}

// NewWarmRosterJob creates the job. A nil retrier uses retry.CacheRetrier.
func NewWarmRosterJob(warmer RosterWarmer, retrier *retry.Retrier, log *logger.Logger, config WarmRosterConfig) *WarmRosterJob {
	if retrier == nil {
		retrier = retry.CacheRetrier()
	}
	if log == nil {
		log = logger.Nop()
	}
	if len(config.Limits) == 0 {
		config.Limits = DefaultWarmRosterConfig().Limits
	}
	return &WarmRosterJob{
		warmer:  warmer,
		retrier: retrier,
		log:     log.With(logger.Component("warm_roster")),
		config:  config,
	}
}

// Name returns the job name.
func (j *WarmRosterJob) Name() string {
	return "warm_roster"
}

// Description returns a human-readable description.
func (j *WarmRosterJob) Description() string {
	return "Reloads the global leaderboard roster into the cache"
}

// Run warms every configured limit. A failing limit does not stop the others.
func (j *WarmRosterJob) Run(ctx context.Context) error {
	stats := &WarmStats{StartedAt: time.Now()}

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	var firstErr error
	for _, limit := range j.config.Limits {
		rows, err := retry.Value(ctx, j.retrier, func(ctx context.Context) (int, error) {
			return j.warmer.Warm(ctx, limit)
		})
		if err != nil {
			stats.Failed++
			if firstErr == nil {
				firstErr = err
			}
			j.log.Warn("roster warm failed", logger.Int("limit", limit), logger.Err(err))
			continue
		}
		stats.Rows += rows
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
	j.lastStats.Store(stats)

	j.log.Debug("roster warmed",
		logger.Int("rows", stats.Rows),
		logger.Int("failed", stats.Failed),
		logger.Latency(stats.Duration),
	)

	if firstErr != nil {
		return fmt.Errorf("warm roster: %d of %d limits failed: %w", stats.Failed, len(j.config.Limits), firstErr)
	}
	return nil
}

// LastStats returns the stats of the last run, or nil before the first run.
func (j *WarmRosterJob) LastStats() *WarmStats {
	return j.lastStats.Load()
}
