// Package main is the HTTP API of the practice hub: dashboard, level,
// achievements and solve recording.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/physics-hub/practice-hub/config"
	"github.com/physics-hub/practice-hub/internal/application/command"
	"github.com/physics-hub/practice-hub/internal/application/query"
	"github.com/physics-hub/practice-hub/internal/bootstrap"
	"github.com/physics-hub/practice-hub/internal/domain/activity"
	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/infrastructure/persistence/postgres"
	"github.com/physics-hub/practice-hub/internal/infrastructure/synthetic"
	httpserver "github.com/physics-hub/practice-hub/internal/interface/http"
	"github.com/physics-hub/practice-hub/internal/interface/http/handlers"
	"github.com/physics-hub/practice-hub/pkg/logger"
	"github.com/physics-hub/practice-hub/pkg/timeutil"
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
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION AND LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := bootstrap.NewLogger(cfg, os.Stdout).With(logger.Component("server"))
	log.Info("starting practice hub API",
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Timezone),
	)

	health := handlers.NewCompositeHealthChecker(cfg.App.Version)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. DATA SOURCES
	// Without a database every read is served from the reference data set.
	// ─────────────────────────────────────────────────────────────────────────
	reference := synthetic.NewReference()

	var (
		stats    query.StatsProvider        = reference
		roster   leaderboard.RosterProvider = reference
		calendar activity.Source            = synthetic.NewActivitySource(cfg.Dashboard.SyntheticSeed)
		recorder command.SolveRecorder
	)

	if cfg.HasDatabase() {
		conn, err := bootstrap.ConnectDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer conn.Close()
		health.AddCheck("postgres", handlers.NewPingCheck(conn))

		solves := postgres.NewActivityRepository(conn)
		stats = postgres.NewStatsRepository(conn)
		roster = postgres.NewLeaderboardRepository(conn)
		recorder = solves
		if !cfg.UseSyntheticActivity() {
			calendar = solves
		}
		log.Info("database connection established")
	} else {
		log.Warn("DATABASE_URL not set, serving reference data")
	}

	cache, err := bootstrap.ConnectCache(ctx, cfg)
	switch {
	case errors.Is(err, bootstrap.ErrCacheDisabled):
		log.Info("roster cache disabled")
	case err != nil:
		log.Warn("redis unavailable, roster cache disabled", logger.Err(err))
	default:
		defer cache.Close()
		roster = bootstrap.CachedRoster(cache, roster, cfg, log)
		health.AddCheck("redis", handlers.NewPingCheck(cache))
		log.Info("roster cache enabled", logger.Duration("ttl", cfg.Dashboard.RosterTTL))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. APPLICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	clock := timeutil.SystemClock(cfg.App.Location)

	deps := httpserver.Dependencies{
		Dashboard: query.NewGetDashboardHandler(stats, calendar, roster, nil, clock, query.DashboardOptions{
			TopTopics:  cfg.Dashboard.TopTopics,
			RosterSize: cfg.Dashboard.RosterSize,
		}, log),
		Level:         query.NewGetLevelHandler(stats),
		Achievements:  query.NewListAchievementsHandler(nil),
		HealthChecker: health,
		Logger:        log,
	}
	if recorder != nil {
		deps.RecordSolve = command.NewRecordSolveHandler(recorder, clock, log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HTTP SERVER AND GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.RequestTimeout = cfg.HTTP.RequestTimeout

	server := httpserver.NewServer(serverCfg, deps)
	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	uptime := server.Uptime()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("shutdown completed", logger.Duration("uptime", uptime))
	return nil
}
