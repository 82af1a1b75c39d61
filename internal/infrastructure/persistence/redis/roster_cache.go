package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/pkg/logger"
)

// Store is the subset of Cache used by RosterCache.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// cachedEntry is the JSON form of a roster row.
type cachedEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
	Solved      int    `json:"solved"`
}

func fromDomainEntry(e leaderboard.Entry) cachedEntry {
	return cachedEntry{
		Rank:        int(e.Rank),
		UserID:      e.UserID.String(),
		DisplayName: e.DisplayName,
		XP:          e.XP,
		Level:       e.Level,
		Solved:      e.SolvedCount,
	}
}

func (c cachedEntry) toDomain() (leaderboard.Entry, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return leaderboard.Entry{}, err
	}
	return leaderboard.Entry{
		Rank:        leaderboard.Rank(c.Rank),
		UserID:      id,
		DisplayName: c.DisplayName,
		XP:          c.XP,
		Level:       c.Level,
		SolvedCount: c.Solved,
	}, nil
}

// RosterCache is a read-through cache in front of a RosterProvider.
// Cache failures are logged and served from the source.
type RosterCache struct {
	store  Store
	source leaderboard.RosterProvider
	ttl    time.Duration
	log    *logger.Logger
}

// NewRosterCache creates the cache. A non-positive ttl uses TTLRoster.
func NewRosterCache(store Store, source leaderboard.RosterProvider, ttl time.Duration, log *logger.Logger) *RosterCache {
	if ttl <= 0 {
		ttl = TTLRoster
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RosterCache{
		store:  store,
		source: source,
		ttl:    ttl,
		log:    log.With(logger.Component("roster_cache")),
	}
}

// TopRoster implements leaderboard.RosterProvider.
func (c *RosterCache) TopRoster(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	key := RosterKey(limit)

	var cached []cachedEntry
	err := c.store.Get(ctx, key, &cached)
	switch {
	case err == nil:
		entries, convErr := toDomainEntries(cached)
		if convErr == nil {
			return entries, nil
		}
		c.log.Warn("dropping corrupt roster cache entry", logger.String("key", key), logger.Err(convErr))
		_ = c.store.Delete(ctx, key)
	case errors.Is(err, ErrCacheMiss):
		c.log.Debug("roster cache miss", logger.String("key", key))
	default:
		c.log.Warn("roster cache read failed", logger.String("key", key), logger.Err(err))
	}

	return c.load(ctx, limit)
}

// Warm reloads the roster from the source and overwrites the cache.
// Unlike TopRoster it reports a failed cache write.
func (c *RosterCache) Warm(ctx context.Context, limit int) (int, error) {
	entries, err := c.source.TopRoster(ctx, limit)
	if err != nil {
		return 0, err
	}
	if err := c.store.Set(ctx, RosterKey(limit), toCachedEntries(entries), c.ttl); err != nil {
		return 0, fmt.Errorf("write roster cache: %w", err)
	}
	return len(entries), nil
}

// Invalidate drops the cached roster for limit.
func (c *RosterCache) Invalidate(ctx context.Context, limit int) error {
	return c.store.Delete(ctx, RosterKey(limit))
}

func (c *RosterCache) load(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	entries, err := c.source.TopRoster(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, RosterKey(limit), toCachedEntries(entries), c.ttl); err != nil {
		c.log.Warn("roster cache write failed", logger.Int("limit", limit), logger.Err(err))
	}
	return entries, nil
}

func toCachedEntries(entries []leaderboard.Entry) []cachedEntry {
	out := make([]cachedEntry, len(entries))
	for i, e := range entries {
		out[i] = fromDomainEntry(e)
	}
	return out
}

func toDomainEntries(cached []cachedEntry) ([]leaderboard.Entry, error) {
	out := make([]leaderboard.Entry, len(cached))
	for i, ce := range cached {
		e, err := ce.toDomain()
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
