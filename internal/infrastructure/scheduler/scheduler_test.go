package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob("sweep", time.Now(), 1)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry()
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Empty(t, job.Error)

	job.Start()
	job.Fail("boom again")
	assert.False(t, job.ShouldRetry())

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.NotNil(t, job.CompletedAt)
}

func TestScheduler_Add(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zaptest.NewLogger(t))
	noop := func(context.Context, time.Time) error { return nil }

	require.NoError(t, s.Add(Task{Name: "sweep", Interval: time.Minute, Run: noop}))
	assert.ErrorIs(t, s.Add(Task{Name: "sweep", Interval: time.Minute, Run: noop}), ErrDuplicateTask)
	assert.ErrorIs(t, s.Add(Task{Name: "other", Interval: 0, Run: noop}), ErrInvalidInterval)

	s.Start(context.Background())
	defer func() { _ = s.Stop(context.Background()) }()
	assert.ErrorIs(t, s.Add(Task{Name: "late", Interval: time.Minute, Run: noop}), ErrSchedulerRunning)
}

func TestScheduler_RunOnceRetries(t *testing.T) {
	s := NewScheduler(SchedulerConfig{JobTimeout: time.Second, RetryAttempts: 2, RetryDelay: time.Millisecond}, zaptest.NewLogger(t))

	var calls int32
	task := Task{Name: "flaky", Interval: time.Hour, Run: func(context.Context, time.Time) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("temporary")
		}
		return nil
	}}

	job := s.RunOnce(context.Background(), task, time.Now())
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, 2, job.RetryCount)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))

	last, ok := s.LastJob("flaky")
	require.True(t, ok)
	assert.Equal(t, JobStatusSuccess, last.Status)
}

func TestScheduler_RunOnceGivesUp(t *testing.T) {
	s := NewScheduler(SchedulerConfig{JobTimeout: time.Second, RetryAttempts: 1, RetryDelay: time.Millisecond}, zaptest.NewLogger(t))

	var calls int32
	task := Task{Name: "broken", Interval: time.Hour, Run: func(context.Context, time.Time) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("permanent")
	}}

	job := s.RunOnce(context.Background(), task, time.Now())
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "permanent", job.Error)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := NewScheduler(SchedulerConfig{JobTimeout: 10 * time.Millisecond}, zaptest.NewLogger(t))

	task := Task{Name: "slow", Interval: time.Hour, Run: func(ctx context.Context, _ time.Time) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	job := s.RunOnce(context.Background(), task, time.Now())
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Contains(t, job.Error, "deadline exceeded")
}

func TestScheduler_TicksUntilStopped(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zaptest.NewLogger(t))

	var calls int32
	require.NoError(t, s.Add(Task{Name: "tick", Interval: 5 * time.Millisecond, Run: func(context.Context, time.Time) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}}))

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	stopped := atomic.LoadInt32(&calls)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&calls))
	assert.NoError(t, s.Stop(ctx))
}
