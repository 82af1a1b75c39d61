package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physics-hub/practice-hub/internal/domain/leaderboard"
	"github.com/physics-hub/practice-hub/pkg/circuitbreaker"
	"github.com/physics-hub/practice-hub/pkg/logger"
)

// memStore is an in-process Store keeping JSON bytes like Redis would.
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	deletes int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		m.deletes++
	}
	return nil
}

type countingSource struct {
	entries []leaderboard.Entry
	err     error
	calls   int
}

func (s *countingSource) TopRoster(_ context.Context, limit int) ([]leaderboard.Entry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.entries) {
		return s.entries[:limit], nil
	}
	return s.entries, nil
}

func roster() []leaderboard.Entry {
	return []leaderboard.Entry{
		{Rank: 1, UserID: uuid.New(), DisplayName: "Dr. Sarah Chen", XP: 8450, Level: 42, SolvedCount: 234},
		{Rank: 2, UserID: uuid.New(), DisplayName: "Prof. Michael Kumar", XP: 7890, Level: 39, SolvedCount: 198},
	}
}

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultConfig().Addr())
	assert.Equal(t, "cache:6380", Config{Host: "cache", Port: 6380}.Addr())
}

func TestRosterKey(t *testing.T) {
	assert.Equal(t, "leaderboard:roster:5", RosterKey(5))
	assert.Equal(t, "leaderboard:roster:10", RosterKey(10))
}

func TestRosterCache_ReadThrough(t *testing.T) {
	store := newMemStore()
	src := &countingSource{entries: roster()}
	c := NewRosterCache(store, src, time.Minute, nil)
	ctx := context.Background()

	first, err := c.TopRoster(ctx, 5)
	require.NoError(t, err)
	second, err := c.TopRoster(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, store.ttls[RosterKey(5)])
}

func TestRosterCache_DefaultTTL(t *testing.T) {
	store := newMemStore()
	c := NewRosterCache(store, &countingSource{entries: roster()}, 0, nil)

	_, err := c.TopRoster(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, TTLRoster, store.ttls[RosterKey(5)])
}

func TestRosterCache_StoreFailureFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.LevelDebug, Output: &buf})

	store := newMemStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	src := &countingSource{entries: roster()}
	c := NewRosterCache(store, src, time.Minute, log)

	entries, err := c.TopRoster(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Contains(t, buf.String(), "roster cache read failed")
	assert.Contains(t, buf.String(), "roster cache write failed")
}

func TestRosterCache_SourceErrorPropagates(t *testing.T) {
	want := errors.New("db down")
	c := NewRosterCache(newMemStore(), &countingSource{err: want}, time.Minute, nil)

	_, err := c.TopRoster(context.Background(), 5)
	assert.ErrorIs(t, err, want)
}

func TestRosterCache_CorruptEntryIsDropped(t *testing.T) {
	store := newMemStore()
	store.data[RosterKey(5)] = []byte(`[{"rank":1,"user_id":"not-a-uuid"}]`)
	src := &countingSource{entries: roster()}
	c := NewRosterCache(store, src, time.Minute, nil)

	entries, err := c.TopRoster(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, store.deletes)
}

func TestRosterCache_WarmAndInvalidate(t *testing.T) {
	store := newMemStore()
	src := &countingSource{entries: roster()}
	c := NewRosterCache(store, src, time.Minute, nil)
	ctx := context.Background()

	n, err := c.Warm(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, store.data, RosterKey(1))

	require.NoError(t, c.Invalidate(ctx, 1))
	assert.NotContains(t, store.data, RosterKey(1))
}

func TestEntryMapping(t *testing.T) {
	e := roster()[0]
	back, err := fromDomainEntry(e).toDomain()
	require.NoError(t, err)
	assert.Equal(t, e, back)
}

func TestCache_Validation(t *testing.T) {
	c := NewCacheWithClient(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))
	defer c.Close()
	ctx := context.Background()

	assert.ErrorIs(t, c.Set(ctx, "", 1, time.Second), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.Set(ctx, "k", nil, time.Second), ErrCacheNilValue)
	assert.ErrorIs(t, c.Set(ctx, "k", 1, -time.Second), ErrCacheInvalidTTL)
	assert.ErrorIs(t, c.Get(ctx, "", new(int)), ErrCacheKeyEmpty)
	assert.NoError(t, c.Delete(ctx))
}

func TestRosterCache_UnreachableRedis(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	cache := NewCacheWithClient(client)
	defer cache.Close()

	src := &countingSource{entries: roster()}
	c := NewRosterCache(cache, src, time.Minute, nil)

	entries, err := c.TopRoster(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

type countingStore struct {
	*memStore
	gets int
}

func (c *countingStore) Get(ctx context.Context, key string, dest any) error {
	c.gets++
	return c.memStore.Get(ctx, key, dest)
}

func TestGuardedStore_OpensOnRedisErrors(t *testing.T) {
	inner := &countingStore{memStore: newMemStore()}
	inner.getErr = errors.New("connection refused")
	guarded := NewGuardedStore(inner, nil, logger.Nop())

	var dest []cachedEntry
	for i := 0; i < 3; i++ {
		assert.Error(t, guarded.Get(context.Background(), "k", &dest))
	}
	assert.Equal(t, 3, inner.gets)

	err := guarded.Get(context.Background(), "k", &dest)
	assert.True(t, errors.Is(err, circuitbreaker.ErrCircuitOpen))
	assert.Equal(t, 3, inner.gets, "open breaker must not reach redis")
}

func TestGuardedStore_MissesKeepBreakerClosed(t *testing.T) {
	inner := &countingStore{memStore: newMemStore()}
	guarded := NewGuardedStore(inner, nil, logger.Nop())

	var dest []cachedEntry
	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, guarded.Get(context.Background(), "absent", &dest), ErrCacheMiss)
	}
	assert.Equal(t, circuitbreaker.StateClosed, guarded.Breaker().State())
}

func TestRosterCache_OverGuardedStore(t *testing.T) {
	inner := newMemStore()
	inner.getErr = errors.New("connection refused")
	inner.setErr = errors.New("connection refused")
	src := &countingSource{entries: roster()}
	rc := NewRosterCache(NewGuardedStore(inner, nil, logger.Nop()), src, time.Minute, logger.Nop())

	for i := 0; i < 5; i++ {
		got, err := rc.TopRoster(context.Background(), 5)
		require.NoError(t, err)
		assert.Len(t, got, len(roster()))
	}
	assert.Equal(t, 5, src.calls)
}

func TestRosterCache_WarmReportsWriteFailure(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("connection refused")
	src := &countingSource{entries: roster()}
	c := NewRosterCache(store, src, time.Minute, nil)

	n, err := c.Warm(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.setErr)
	assert.Zero(t, n)
	assert.Equal(t, 1, src.calls)

	// reads still fall back to the source
	entries, err := c.TopRoster(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRosterCache_WarmFailsWhileBreakerOpen(t *testing.T) {
	inner := newMemStore()
	inner.setErr = errors.New("connection refused")
	c := NewRosterCache(NewGuardedStore(inner, nil, logger.Nop()), &countingSource{entries: roster()}, time.Minute, nil)

	var err error
	for i := 0; i < 4; i++ {
		_, err = c.Warm(context.Background(), 5)
		require.Error(t, err)
	}
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
}
