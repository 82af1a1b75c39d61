package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	err   error
	panic bool
}

func (j *countingJob) Name() string        { return j.name }
func (j *countingJob) Description() string { return "counts runs" }
func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	if j.panic {
		panic("boom")
	}
	return j.err
}

func TestRegister_Validation(t *testing.T) {
	s := New(Config{})

	assert.ErrorIs(t, s.Register(nil, time.Minute), ErrNilJob)
	assert.ErrorIs(t, s.Register(&countingJob{name: "a"}, 0), ErrInvalidInterval)

	require.NoError(t, s.Register(&countingJob{name: "a"}, time.Minute))
	assert.ErrorIs(t, s.Register(&countingJob{name: "a"}, time.Minute), ErrJobAlreadyExists)

	require.NoError(t, s.Unregister("a"))
	assert.ErrorIs(t, s.Unregister("a"), ErrJobNotFound)
}

func TestRunNow(t *testing.T) {
	s := New(Config{})
	ok := &countingJob{name: "ok"}
	bad := &countingJob{name: "bad", err: errors.New("nope")}
	crash := &countingJob{name: "crash", panic: true}
	for _, j := range []*countingJob{ok, bad, crash} {
		require.NoError(t, s.Register(j, time.Hour))
	}

	res, err := s.RunNow(context.Background(), "ok")
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = s.RunNow(context.Background(), "bad")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.EqualError(t, res.Error, "nope")

	res, err = s.RunNow(context.Background(), "crash")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error.Error(), "panicked")

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)

	jobs := s.ListJobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, "bad", jobs[0].Name)
	assert.Equal(t, int64(1), jobs[0].FailCount)
	require.NotNil(t, jobs[0].LastResult)
	assert.Equal(t, int64(1), jobs[2].RunCount)
}

func TestStartStop(t *testing.T) {
	s := New(Config{})
	job := &countingJob{name: "tick"}
	require.NoError(t, s.Register(job, time.Hour))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}
