// Package bootstrap holds the startup wiring shared by the server and
// worker binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/physics-hub/practice-hub/config"
	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/internal/infrastructure/persistence/postgres"
	"github.com/physics-hub/practice-hub/internal/infrastructure/persistence/redis"
	"github.com/physics-hub/practice-hub/pkg/logger"
	"github.com/physics-hub/practice-hub/pkg/retry"
)

// ErrCacheDisabled is returned by ConnectCache when REDIS_DISABLED is set.
var ErrCacheDisabled = errors.New("redis cache is disabled")

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config, out io.Writer) *logger.Logger {
	if out == nil {
		out = os.Stdout
	}
	return logger.New(logger.Options{
		Output:    out,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	}).With(
		logger.String("app", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)
}

// ConnectDatabase opens the pool with retries and, when enabled, applies
// pending migrations.
func ConnectDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	opts := postgres.DefaultPoolOptions()
	opts.MaxConns = int32(cfg.Database.MaxConns)
	opts.MinConns = int32(cfg.Database.MinConns)
	opts.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	opts.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	r := retry.DatabaseRetrier(func(attempt int, err error, delay time.Duration) {
		log.Warn("database connection failed, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})

	conn, err := retry.Value(ctx, r, func(ctx context.Context) (*postgres.Connection, error) {
		return postgres.NewConnectionFromURL(ctx, cfg.Database.URL, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		applied, err := postgres.NewMigrator(conn).Migrate(ctx)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("database schema is up to date", logger.Int("applied", applied))
	}
	return conn, nil
}

// ConnectCache dials Redis. Callers treat any error as "run without cache".
func ConnectCache(ctx context.Context, cfg *config.Config) (*redis.Cache, error) {
	if cfg.Redis.Disabled {
		return nil, ErrCacheDisabled
	}

	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.ReadTimeout = cfg.Redis.ReadTimeout
	rc.WriteTimeout = cfg.Redis.WriteTimeout

	return redis.NewCache(ctx, rc)
}

// CachedRoster puts the guarded Redis roster cache in front of source.
func CachedRoster(cache *redis.Cache, source leaderboard.RosterProvider, cfg *config.Config, log *logger.Logger) *redis.RosterCache {
	store := redis.NewGuardedStore(cache, nil, log)
	return redis.NewRosterCache(store, source, cfg.Dashboard.RosterTTL, log)
}
