package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func fail(context.Context) error { return errBoom }
func ok(context.Context) error   { return nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(context.Background(), fail), errBoom)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.True(t, IsRejected(err))
	assert.False(t, called)
}

func TestBreaker_SuccessResetsStreak(t *testing.T) {
	cb := New("test", WithFailureThreshold(2))
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, ok)
	_ = cb.Execute(ctx, fail)
	assert.Equal(t, StateClosed, cb.State())

	counts := cb.Counts()
	assert.Equal(t, 3, counts.Requests)
	assert.Equal(t, 2, counts.TotalFailures)
	assert.Equal(t, 1, counts.ConsecutiveFailures)
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	var transitions []string
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithTimeout(10*time.Second),
		WithClock(clock.now),
		WithOnStateChange(func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		}),
	)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	require.Equal(t, StateOpen, cb.State())

	clock.advance(5 * time.Second)
	assert.ErrorIs(t, cb.Execute(ctx, ok), ErrCircuitOpen)

	clock.advance(5 * time.Second)
	require.NoError(t, cb.Execute(ctx, ok))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(ctx, ok))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := New("test", WithFailureThreshold(1), WithTimeout(time.Second), WithClock(clock.now))
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	clock.advance(time.Second)
	assert.ErrorIs(t, cb.Execute(ctx, fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreaker_HalfOpenProbeLimit(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cb := New("test", WithFailureThreshold(1), WithTimeout(time.Second), WithClock(clock.now))
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	clock.advance(time.Second)

	err := cb.Execute(ctx, func(ctx context.Context) error {
		// a second caller while the probe is in flight
		assert.ErrorIs(t, cb.Execute(ctx, ok), ErrTooManyRequests)
		return nil
	})
	assert.NoError(t, err)
}

func TestBreaker_IsFailureIgnoresExpectedErrors(t *testing.T) {
	errMiss := errors.New("miss")
	cb := CacheBreaker(func(err error) bool { return !errors.Is(err, errMiss) }, nil)

	for i := 0; i < 10; i++ {
		_ = cb.Execute(context.Background(), func(context.Context) error { return errMiss })
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, "roster-cache", cb.Name())
}

func TestBreaker_FallbackAndReset(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))
	ctx := context.Background()
	_ = cb.Execute(ctx, fail)

	err := cb.ExecuteWithFallback(ctx, ok, func(err error) error {
		assert.ErrorIs(t, err, ErrCircuitOpen)
		return nil
	})
	assert.NoError(t, err)

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.Counts().Requests)
}
