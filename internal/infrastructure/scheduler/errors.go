package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when a task is added after Start
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrDuplicateTask is returned when two tasks share a name
	ErrDuplicateTask = errors.New("task name already registered")

	// ErrInvalidInterval is returned for a non-positive task interval
	ErrInvalidInterval = errors.New("task interval must be positive")
)
