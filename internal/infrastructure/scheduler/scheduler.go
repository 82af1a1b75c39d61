// Package scheduler runs the hub's periodic background jobs on top of gocron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/physics-hub/practice-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job is a unit of periodic work.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job. The context is cancelled when the scheduler stops.
	Run(ctx context.Context) error

	// Description returns a human-readable description of the job.
	Description() string
}

// JobResult is the outcome of one execution.
type JobResult struct {
	JobName     string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Success     bool
	Error       error
}

var (
	ErrNilJob                  = errors.New("job cannot be nil")
	ErrInvalidInterval         = errors.New("interval must be positive")
	ErrJobAlreadyExists        = errors.New("job already exists")
	ErrJobNotFound             = errors.New("job not found")
	ErrSchedulerAlreadyRunning = errors.New("scheduler is already running")
	ErrSchedulerNotRunning     = errors.New("scheduler is not running")
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Config configures the Scheduler.
type Config struct {
	Logger   *logger.Logger
	Timezone *time.Location
}

// Scheduler runs registered jobs at fixed intervals. A job never overlaps
// with itself; a tick that arrives while the previous run is still going
// is skipped.
type Scheduler struct {
	mu sync.RWMutex

	cron *gocron.Scheduler
	log  *logger.Logger

	jobs     map[string]*scheduledJob
	lastRuns map[string]JobResult

	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type scheduledJob struct {
	job       Job
	interval  time.Duration
	handle    *gocron.Job
	runCount  int64
	failCount int64
}

// New creates a stopped scheduler.
func New(cfg Config) *Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}

	cron := gocron.NewScheduler(cfg.Timezone)
	cron.TagsUnique()

	return &Scheduler{
		cron:     cron,
		log:      cfg.Logger.With(logger.Component("scheduler")),
		jobs:     make(map[string]*scheduledJob),
		lastRuns: make(map[string]JobResult),
		ctx:      context.Background(),
	}
}

// Register schedules job every interval. The first run happens as soon as
// the scheduler starts.
func (s *Scheduler) Register(job Job, interval time.Duration) error {
	if job == nil {
		return ErrNilJob
	}
	if interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}

	sj := &scheduledJob{job: job, interval: interval}
	handle, err := s.cron.Every(interval).Tag(name).SingletonMode().Do(func() {
		s.execute(sj)
	})
	if err != nil {
		return fmt.Errorf("scheduler: failed to schedule %s: %w", name, err)
	}
	sj.handle = handle
	s.jobs[name] = sj

	s.log.Info("job registered",
		logger.String("job", name),
		logger.String("description", job.Description()),
		logger.Duration("interval", interval),
	)
	return nil
}

// Unregister removes a job.
func (s *Scheduler) Unregister(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if err := s.cron.RemoveByTag(name); err != nil {
		return err
	}
	delete(s.jobs, name)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start runs the scheduler in the background until Stop or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSchedulerAlreadyRunning
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	count := len(s.jobs)
	s.mu.Unlock()

	s.cron.StartAsync()
	s.log.Info("scheduler started", logger.Int("jobs_count", count))
	return nil
}

// Stop stops scheduling and waits for running jobs to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.cron.Stop()
	s.wg.Wait()

	s.log.Info("scheduler stopped")
	return nil
}

// IsRunning reports whether Start was called without a matching Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// ══════════════════════════════════════════════════════════════════════════════
// EXECUTION
// ══════════════════════════════════════════════════════════════════════════════

func (s *Scheduler) execute(sj *scheduledJob) {
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()

	s.wg.Add(1)
	defer s.wg.Done()

	s.run(ctx, sj)
}

func (s *Scheduler) run(ctx context.Context, sj *scheduledJob) JobResult {
	name := sj.job.Name()
	startedAt := time.Now()

	err := runSafely(ctx, sj.job)
	completedAt := time.Now()

	result := JobResult{
		JobName:     name,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
		Success:     err == nil,
		Error:       err,
	}

	s.mu.Lock()
	sj.runCount++
	if err != nil {
		sj.failCount++
	}
	s.lastRuns[name] = result
	s.mu.Unlock()

	if err != nil {
		s.log.Error("job failed",
			logger.String("job", name),
			logger.Latency(result.Duration),
			logger.Err(err),
		)
	} else {
		s.log.Info("job completed",
			logger.String("job", name),
			logger.Latency(result.Duration),
		)
	}
	return result
}

func runSafely(ctx context.Context, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job panicked: %v", p)
		}
	}()
	return job.Run(ctx)
}

// RunNow executes a registered job synchronously, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) (JobResult, error) {
	s.mu.RLock()
	sj, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return JobResult{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(ctx, sj), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// INTROSPECTION
// ══════════════════════════════════════════════════════════════════════════════

// JobInfo describes a registered job.
type JobInfo struct {
	Name        string
	Description string
	Interval    time.Duration
	NextRun     time.Time
	RunCount    int64
	FailCount   int64
	LastResult  *JobResult
}

// ListJobs returns the registered jobs sorted by name.
func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for name, sj := range s.jobs {
		info := JobInfo{
			Name:        name,
			Description: sj.job.Description(),
			Interval:    sj.interval,
			RunCount:    sj.runCount,
			FailCount:   sj.failCount,
		}
		if sj.handle != nil {
			info.NextRun = sj.handle.NextRun()
		}
		if r, ok := s.lastRuns[name]; ok {
			r := r
			info.LastResult = &r
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
