// Package main is the background worker of the practice hub. It keeps the
// Redis roster cache warm so dashboard requests rarely reach PostgreSQL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/physics-hub/practice-hub/config"
	"github.com/physics-hub/practice-hub/internal/bootstrap"
	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/infrastructure/persistence/postgres"
	"github.com/physics-hub/practice-hub/internal/infrastructure/scheduler"
	"github.com/physics-hub/practice-hub/internal/infrastructure/scheduler/jobs"
	"github.com/physics-hub/practice-hub/internal/infrastructure/synthetic"
	"github.com/physics-hub/practice-hub/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := bootstrap.NewLogger(cfg, os.Stdout).With(logger.Component("worker"))
	if !cfg.Scheduler.Enabled {
		log.Info("scheduler disabled, nothing to do")
		return nil
	}

	var source leaderboard.RosterProvider = synthetic.NewReference()
	if cfg.HasDatabase() {
		conn, err := bootstrap.ConnectDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer conn.Close()
		source = postgres.NewLeaderboardRepository(conn)
	}

	cache, err := bootstrap.ConnectCache(ctx, cfg)
	if err != nil {
		if errors.Is(err, bootstrap.ErrCacheDisabled) {
			log.Info("roster cache disabled, nothing to warm")
			return nil
		}
		return fmt.Errorf("connect redis: %w", err)
	}
	defer cache.Close()

	roster := bootstrap.CachedRoster(cache, source, cfg, log)

	limits := []int{cfg.Dashboard.RosterSize}
	if cfg.Dashboard.RosterSize != leaderboard.DefaultRosterSize {
		limits = append(limits, leaderboard.DefaultRosterSize)
	}
	warm := jobs.NewWarmRosterJob(roster, nil, log, jobs.WarmRosterConfig{
		Limits:  limits,
		Timeout: cfg.Scheduler.JobTimeout,
	})

	sched := scheduler.New(scheduler.Config{Logger: log, Timezone: cfg.App.Location})
	if err := sched.Register(warm, cfg.Scheduler.RosterInterval); err != nil {
		return fmt.Errorf("register %s: %w", warm.Name(), err)
	}
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	for _, job := range sched.ListJobs() {
		log.Info("job scheduled",
			logger.String("job", job.Name),
			logger.Duration("interval", job.Interval),
		)
	}

	<-ctx.Done()
	log.Info("received shutdown signal")

	if err := sched.Stop(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	log.Info("shutdown completed")
	return nil
}
