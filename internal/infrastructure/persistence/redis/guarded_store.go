package redis

import (
	"context"
	"errors"
	"time"

	"github.com/physics-hub/practice-hub/pkg/circuitbreaker"
	"github.com/physics-hub/practice-hub/pkg/logger"
)

// GuardedStore puts a circuit breaker in front of a Store. While Redis is
// down the breaker rejects calls at once, and RosterCache falls back to
// the source without paying a dial timeout per request.
type GuardedStore struct {
	next    Store
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedStore wraps next. A nil breaker uses circuitbreaker.CacheBreaker.
func NewGuardedStore(next Store, breaker *circuitbreaker.CircuitBreaker, log *logger.Logger) *GuardedStore {
	if log == nil {
		log = logger.Nop()
	}
	if breaker == nil {
		breaker = circuitbreaker.CacheBreaker(isStoreFailure, func(name string, from, to circuitbreaker.State) {
			log.Warn("cache breaker state changed",
				logger.Component(name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		})
	}
	return &GuardedStore{next: next, breaker: breaker}
}

// isStoreFailure ignores outcomes that say nothing about Redis health.
func isStoreFailure(err error) bool {
	switch {
	case errors.Is(err, ErrCacheMiss),
		errors.Is(err, ErrCacheKeyEmpty),
		errors.Is(err, ErrCacheNilValue),
		errors.Is(err, ErrCacheInvalidTTL),
		errors.Is(err, ErrCacheSerialization),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// Breaker exposes the breaker for health reporting.
func (g *GuardedStore) Breaker() *circuitbreaker.CircuitBreaker {
	return g.breaker
}

// Get implements Store.
func (g *GuardedStore) Get(ctx context.Context, key string, dest any) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.Get(ctx, key, dest)
	})
}

// Set implements Store.
func (g *GuardedStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.Set(ctx, key, value, ttl)
	})
}

// Delete implements Store.
func (g *GuardedStore) Delete(ctx context.Context, keys ...string) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.Delete(ctx, keys...)
	})
}
