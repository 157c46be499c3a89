// Package scheduler runs named maintenance tasks on a fixed interval.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a single task run
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// TaskFunc performs one run of a task. now is the tick time.
type TaskFunc func(ctx context.Context, now time.Time) error

// Task is a named function run every Interval
type Task struct {
	Name     string
	Interval time.Duration
	Run      TaskFunc
}

// Job is one run of a task, including its retries
type Job struct {
	ID          uuid.UUID
	Task        string
	TickedAt    time.Time
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job for a tick
func NewJob(task string, tickedAt time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Task:       task,
		TickedAt:   tickedAt,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job failed and has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry puts the job back to pending
func (j *Job) ScheduleRetry() {
	j.RetryCount++
	j.Status = JobStatusPending
	j.Error = ""
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		JobTimeout:    5 * time.Minute,
		RetryAttempts: 2,
		RetryDelay:    30 * time.Second,
	}
}

// Scheduler runs registered tasks, one goroutine per task. A task never
// overlaps with itself: the next tick is skipped while a run is in progress.
type Scheduler struct {
	config SchedulerConfig
	logger *zap.Logger

	tasks     []Task
	last      map[string]*Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, logger *zap.Logger) *Scheduler {
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultSchedulerConfig().JobTimeout
	}
	if config.RetryAttempts < 0 {
		config.RetryAttempts = 0
	}
	return &Scheduler{
		config: config,
		logger: logger,
		last:   make(map[string]*Job),
	}
}

// Add registers a task. Tasks must be added before Start.
func (s *Scheduler) Add(task Task) error {
	if task.Interval <= 0 {
		return ErrInvalidInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	for _, t := range s.tasks {
		if t.Name == task.Name {
			return ErrDuplicateTask
		}
	}
	s.tasks = append(s.tasks, task)
	return nil
}

// Start launches a ticker per task. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	tasks := append([]Task(nil), s.tasks...)
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, task := range tasks {
		s.wg.Add(1)
		go s.loop(ctx, task)
	}

	s.logger.Info("Scheduler started", zap.Int("tasks", len(tasks)))
}

// Stop cancels all tasks and waits for in-flight runs until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// LastJob returns a copy of the most recent job for a task
func (s *Scheduler) LastJob(task string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.last[task]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (s *Scheduler) loop(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.RunOnce(ctx, task, now)
		}
	}
}

// RunOnce executes a task with timeout and retries and returns the job record
func (s *Scheduler) RunOnce(ctx context.Context, task Task, now time.Time) *Job {
	job := NewJob(task.Name, now, s.config.RetryAttempts)

	for {
		job.Start()
		s.record(job)

		jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		err := task.Run(jobCtx, now)
		cancel()

		if err == nil {
			job.Complete()
			s.record(job)
			s.logger.Debug("Task completed",
				zap.String("task", task.Name),
				zap.String("job_id", job.ID.String()),
			)
			return job
		}

		job.Fail(err.Error())
		s.record(job)
		s.logger.Warn("Task failed",
			zap.String("task", task.Name),
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(err),
		)

		if !job.ShouldRetry() {
			return job
		}
		job.ScheduleRetry()

		select {
		case <-ctx.Done():
			job.Fail(ctx.Err().Error())
			s.record(job)
			return job
		case <-time.After(s.config.RetryDelay):
		}
	}
}

func (s *Scheduler) record(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *job
	s.last[job.Task] = &snapshot
}
