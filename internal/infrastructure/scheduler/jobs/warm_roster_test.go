package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physics-hub/practice-hub/pkg/retry"
)

type fakeWarmer struct {
	mu       sync.Mutex
	calls    map[int]int
	failures map[int]int
}

func (f *fakeWarmer) Warm(_ context.Context, limit int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[int]int{}
	}
	f.calls[limit]++
	if f.failures[limit] > 0 {
		f.failures[limit]--
		return 0, errors.New("redis timeout")
	}
	return limit, nil
}

func fastRetrier() *retry.Retrier {
	return retry.New(retry.WithMaxAttempts(3), retry.WithInitialDelay(time.Millisecond), retry.WithMaxDelay(time.Millisecond))
}

func TestWarmRosterJob_Run(t *testing.T) {
	w := &fakeWarmer{}
	job := NewWarmRosterJob(w, fastRetrier(), nil, WarmRosterConfig{Limits: []int{5, 10}})

	assert.Nil(t, job.LastStats())
	require.NoError(t, job.Run(context.Background()))

	stats := job.LastStats()
	require.NotNil(t, stats)
	assert.Equal(t, 15, stats.Rows)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, "warm_roster", job.Name())
}

func TestWarmRosterJob_RetriesTransientFailure(t *testing.T) {
	w := &fakeWarmer{failures: map[int]int{5: 2}}
	job := NewWarmRosterJob(w, fastRetrier(), nil, WarmRosterConfig{Limits: []int{5}})

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 3, w.calls[5])
}

func TestWarmRosterJob_PartialFailure(t *testing.T) {
	w := &fakeWarmer{failures: map[int]int{5: 10}}
	job := NewWarmRosterJob(w, fastRetrier(), nil, WarmRosterConfig{Limits: []int{5, 10}})

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Equal(t, 1, w.calls[10])
	assert.Equal(t, 10, job.LastStats().Rows)
}

func TestWarmRosterJob_DefaultLimits(t *testing.T) {
	w := &fakeWarmer{}
	job := NewWarmRosterJob(w, nil, nil, WarmRosterConfig{})

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, w.calls[5])
}
