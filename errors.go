package jobmanager

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueFull is returned when a priority lane already holds
	// Options.MaxQueued jobs.
	ErrQueueFull = errors.New("jobmanager: queue is full")

	// ErrNilFunc is raised when a job is built around a nil function.
	ErrNilFunc = errors.New("jobmanager: job func is nil")

	// Usage defects. These are never returned, they are raised with panic.
	ErrNotInitialized     = errors.New("jobmanager: manager is not initialized")
	ErrAlreadyInitialized = errors.New("jobmanager: manager is already initialized")
	ErrClosed             = errors.New("jobmanager: manager is shutting down")
	ErrInvalidWorkers     = errors.New("jobmanager: worker count must be positive")
	ErrInvalidPriority    = errors.New("jobmanager: invalid priority")
	ErrAlreadySubmitted   = errors.New("jobmanager: job already submitted")
	ErrAlreadyInvoked     = errors.New("jobmanager: job already invoked")
	ErrJobMoved           = errors.New("jobmanager: job was moved")
	ErrJobInFlight        = errors.New("jobmanager: job is still in flight")
	ErrNoInstance         = errors.New("jobmanager: method job has no instance")
	ErrFenceRegistered    = errors.New("jobmanager: job already has a fence")
	ErrNegativeFence      = errors.New("jobmanager: fence count went negative")
)

// UsageError is the panic value raised for a programming error such as
// submitting a job twice. It wraps one of the sentinel errors above.
type UsageError struct {
	Err    error
	Detail string
}

func (e *UsageError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *UsageError) Unwrap() error { return e.Err }

// defect panics with a UsageError.
func defect(err error, format string, args ...any) {
	panic(&UsageError{Err: err, Detail: fmt.Sprintf(format, args...)})
}

// JobPanicError wraps a value recovered from a job body when
// Options.RecoverPanics is set.
type JobPanicError struct {
	Job   string
	Value any
}

func (e *JobPanicError) Error() string {
	return fmt.Sprintf("jobmanager: job %q panicked: %v", e.Job, e.Value)
}
