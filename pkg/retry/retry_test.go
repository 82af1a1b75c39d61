package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(opts ...Option) *Retrier {
	base := []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond), WithJitter(0)}
	return New(append(base, opts...)...)
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	var retried []int

	r := fast(WithMaxAttempts(4), WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		retried = append(retried, attempt)
	}))

	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_StopsOnPermanent(t *testing.T) {
	sentinel := errors.New("bad credentials")
	calls := 0

	err := fast(WithMaxAttempts(5)).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(sentinel)
	})

	assert.ErrorIs(t, err, sentinel)
	assert.False(t, IsPermanent(err))
	assert.Equal(t, 1, calls)
}

func TestDo_RespectsRetryIf(t *testing.T) {
	calls := 0
	err := fast(WithMaxAttempts(5), WithRetryIf(func(error) bool { return false })).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("nope")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := fast(WithMaxAttempts(3)).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("down")
	})

	assert.EqualError(t, err, "down")
	assert.Equal(t, 3, calls)
}

func TestDo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fast().Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValue(t *testing.T) {
	calls := 0
	got, err := Value(context.Background(), fast(), func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDelay_CappedAndGrowing(t *testing.T) {
	r := New(WithInitialDelay(10*time.Millisecond), WithMaxDelay(35*time.Millisecond), WithMultiplier(2), WithJitter(0))

	assert.Equal(t, 10*time.Millisecond, r.delay(1))
	assert.Equal(t, 20*time.Millisecond, r.delay(2))
	assert.Equal(t, 35*time.Millisecond, r.delay(3))
}
