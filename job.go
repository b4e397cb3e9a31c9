package jobmanager

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a Job.
type JobStatus uint32

const (
	StatusCreated JobStatus = iota
	StatusSubmitted
	StatusExecuting
	StatusCompleted
	// StatusMoved marks a job whose contents were transferred by Move.
	StatusMoved
)

func (s JobStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusSubmitted:
		return "submitted"
	case StatusExecuting:
		return "executing"
	case StatusCompleted:
		return "completed"
	case StatusMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Job is a self-contained unit of deferred work.
//
// A Job owns a copy of every argument it was built with, so it stays valid
// after the frame that built it returns. The caller owns the Job value
// itself and must not touch it between Run and completion other than
// through its fence.
//
// Captured values are released right after the body returns and before
// the fence is signalled: once State.Wait returns, every Releaser held by
// the job has been released.
type Job struct {
	id     uuid.UUID
	name   string
	prio   Priority
	fence  *State
	ctx    context.Context
	status atomic.Uint32

	// invoke runs the body; nil until a method job has its instance.
	invoke func()
	// drop releases the captured arguments.
	drop     func()
	cleanups []func()
}

func newJob(name string) *Job {
	return &Job{
		id:   uuid.New(),
		name: name,
		prio: PriorityRegular,
	}
}

// NewFunc builds a job calling fn.
func NewFunc(name string, fn func()) *Job {
	if fn == nil {
		defect(ErrNilFunc, "%s", name)
	}
	j := newJob(name)
	j.invoke = fn
	return j
}

// NewFunc1 builds a job calling fn(a) with a copy of a.
func NewFunc1[A any](name string, fn func(A), a A) *Job {
	if fn == nil {
		defect(ErrNilFunc, "%s", name)
	}
	a = own(a)
	j := newJob(name)
	j.invoke = func() { fn(a) }
	j.drop = func() { release(&a) }
	return j
}

// NewFunc2 builds a job calling fn(a, b).
func NewFunc2[A, B any](name string, fn func(A, B), a A, b B) *Job {
	if fn == nil {
		defect(ErrNilFunc, "%s", name)
	}
	a, b = own(a), own(b)
	j := newJob(name)
	j.invoke = func() { fn(a, b) }
	j.drop = func() { release(&a); release(&b) }
	return j
}

// NewFunc3 builds a job calling fn(a, b, c).
func NewFunc3[A, B, C any](name string, fn func(A, B, C), a A, b B, c C) *Job {
	if fn == nil {
		defect(ErrNilFunc, "%s", name)
	}
	a, b, c = own(a), own(b), own(c)
	j := newJob(name)
	j.invoke = func() { fn(a, b, c) }
	j.drop = func() { release(&a); release(&b); release(&c) }
	return j
}

// NewClosure builds a closure job. The closure value is dropped after it
// ran; values it must tear down are registered with Defer or passed
// through NewClosure1.
func NewClosure(name string, fn func()) *Job {
	if fn == nil {
		defect(ErrNilFunc, "%s", name)
	}
	j := newJob(name)
	j.invoke = fn
	j.drop = func() { fn = nil }
	return j
}

// NewClosure1 builds a closure job with one captured value handed to fn.
// If the value implements Releaser it is released after fn returns.
func NewClosure1[A any](name string, fn func(A), a A) *Job {
	if fn == nil {
		defect(ErrNilFunc, "%s", name)
	}
	a = own(a)
	j := newJob(name)
	j.invoke = func() { fn(a) }
	j.drop = func() { fn = nil; release(&a) }
	return j
}

// ID returns the diagnostic id of the job.
func (j *Job) ID() uuid.UUID { return j.id }

// Name returns the diagnostic name of the job.
func (j *Job) Name() string { return j.name }

// Priority returns the lane the job is queued on.
func (j *Job) Priority() Priority { return j.prio }

// Status returns the current lifecycle state.
func (j *Job) Status() JobStatus { return JobStatus(j.status.Load()) }

// Fence returns the fence registered with RegisterFence, or nil.
func (j *Job) Fence() *State { return j.fence }

func (j *Job) mustBeCreated(op string) {
	switch st := j.Status(); st {
	case StatusCreated:
	case StatusMoved:
		defect(ErrJobMoved, "%s on %q", op, j.name)
	default:
		defect(ErrAlreadySubmitted, "%s on %q (%s)", op, j.name, st)
	}
}

// SetPriority selects the lane used by Run. Default is PriorityRegular.
func (j *Job) SetPriority(p Priority) *Job {
	j.mustBeCreated("SetPriority")
	if !p.Valid() {
		defect(ErrInvalidPriority, "%d", p)
	}
	j.prio = p
	return j
}

// RegisterFence binds the job to s and increments its count. A job may be
// bound to at most one fence.
func (j *Job) RegisterFence(s *State) *Job {
	j.mustBeCreated("RegisterFence")
	if j.fence != nil {
		defect(ErrFenceRegistered, "%q", j.name)
	}
	if s == nil {
		return j
	}
	s.Register()
	j.fence = s
	return j
}

// WithContext attaches ctx to the job. It is used for job-scoped logging
// and as the parent of instrumentation sections; it never cancels the job.
func (j *Job) WithContext(ctx context.Context) *Job {
	j.mustBeCreated("WithContext")
	j.ctx = ctx
	return j
}

// Defer registers fn to run when the job releases its captured values.
// Deferred functions run in LIFO order before the fence is signalled.
func (j *Job) Defer(fn func()) *Job {
	j.mustBeCreated("Defer")
	if fn != nil {
		j.cleanups = append(j.cleanups, fn)
	}
	return j
}

// Move transfers the job's captured values, fence registration and
// priority to a new Job. The receiver is left empty and can never run.
func (j *Job) Move() *Job {
	j.mustBeCreated("Move")
	dst := &Job{
		id:       j.id,
		name:     j.name,
		prio:     j.prio,
		fence:    j.fence,
		ctx:      j.ctx,
		invoke:   j.invoke,
		drop:     j.drop,
		cleanups: j.cleanups,
	}
	j.fence, j.ctx, j.invoke, j.drop, j.cleanups = nil, nil, nil, nil, nil
	j.status.Store(uint32(StatusMoved))
	return dst
}

// Run submits the job to m. It is shorthand for m.Submit(j).
func (j *Job) Run(m *Manager) error {
	return m.Submit(j)
}

// Close destroys a job that will not run: captured values are released
// and its fence is signalled. Closing a job that is queued or executing
// is a usage defect. Closing a completed or moved job does nothing.
func (j *Job) Close() {
	switch st := j.Status(); st {
	case StatusCreated:
		j.finish()
	case StatusSubmitted, StatusExecuting:
		defect(ErrJobInFlight, "Close on %q (%s)", j.name, st)
	}
}

func (j *Job) context() context.Context {
	if j.ctx == nil {
		return context.Background()
	}
	return j.ctx
}

// submitted flips Created to Submitted.
func (j *Job) submitted() {
	if !j.status.CompareAndSwap(uint32(StatusCreated), uint32(StatusSubmitted)) {
		j.mustBeCreated("Submit")
	}
}

// unsubmit reverts submitted when the job could not be queued.
func (j *Job) unsubmit() {
	j.status.Store(uint32(StatusCreated))
}

// call runs the body exactly once.
func (j *Job) call() {
	if !j.status.CompareAndSwap(uint32(StatusSubmitted), uint32(StatusExecuting)) {
		defect(ErrAlreadyInvoked, "%q (%s)", j.name, j.Status())
	}
	fn := j.invoke
	j.invoke = nil
	fn()
}

// finish releases captured values, marks the job completed and then
// signals its fence. Nothing of j is touched after the signal.
func (j *Job) finish() {
	j.invoke = nil
	if j.drop != nil {
		j.drop()
		j.drop = nil
	}
	for i := len(j.cleanups) - 1; i >= 0; i-- {
		j.cleanups[i]()
	}
	j.cleanups = nil

	fence := j.fence
	j.fence = nil
	j.status.Store(uint32(StatusCompleted))
	if fence != nil {
		fence.Signal()
	}
}

// MethodJob is a job calling a method on a caller supplied instance.
//
// The instance is not owned: it must stay valid until the job completed.
// Running a MethodJob before SetInstance is a usage defect.
type MethodJob[T any] struct {
	*Job
	call func(*T)
}

func newMethodJob[T any](name string, call func(*T)) *MethodJob[T] {
	return &MethodJob[T]{Job: newJob(name), call: call}
}

// NewMethod builds a job calling method on the instance set later.
// method is usually a method expression such as (*Host).Update.
func NewMethod[T any](name string, method func(*T)) *MethodJob[T] {
	if method == nil {
		defect(ErrNilFunc, "%s", name)
	}
	return newMethodJob(name, method)
}

// NewMethod1 builds a job calling method(instance, a).
func NewMethod1[T, A any](name string, method func(*T, A), a A) *MethodJob[T] {
	if method == nil {
		defect(ErrNilFunc, "%s", name)
	}
	a = own(a)
	mj := newMethodJob(name, func(t *T) { method(t, a) })
	mj.drop = func() { release(&a) }
	return mj
}

// NewMethod2 builds a job calling method(instance, a, b).
func NewMethod2[T, A, B any](name string, method func(*T, A, B), a A, b B) *MethodJob[T] {
	if method == nil {
		defect(ErrNilFunc, "%s", name)
	}
	a, b = own(a), own(b)
	mj := newMethodJob(name, func(t *T) { method(t, a, b) })
	mj.drop = func() { release(&a); release(&b) }
	return mj
}

// NewMethod3 builds a job calling method(instance, a, b, c).
func NewMethod3[T, A, B, C any](name string, method func(*T, A, B, C), a A, b B, c C) *MethodJob[T] {
	if method == nil {
		defect(ErrNilFunc, "%s", name)
	}
	a, b, c = own(a), own(b), own(c)
	mj := newMethodJob(name, func(t *T) { method(t, a, b, c) })
	mj.drop = func() { release(&a); release(&b); release(&c) }
	return mj
}

// SetInstance binds the target the method is called on.
func (mj *MethodJob[T]) SetInstance(t *T) *MethodJob[T] {
	mj.mustBeCreated("SetInstance")
	if t == nil {
		defect(ErrNoInstance, "%q", mj.name)
	}
	call := mj.call
	mj.invoke = func() { call(t) }
	return mj
}

// SetPriority is Job.SetPriority returning the MethodJob for chaining.
func (mj *MethodJob[T]) SetPriority(p Priority) *MethodJob[T] {
	mj.Job.SetPriority(p)
	return mj
}

// RegisterFence is Job.RegisterFence returning the MethodJob for chaining.
func (mj *MethodJob[T]) RegisterFence(s *State) *MethodJob[T] {
	mj.Job.RegisterFence(s)
	return mj
}

// Move transfers the job, instance binding included, to a new MethodJob.
func (mj *MethodJob[T]) Move() *MethodJob[T] {
	dst := &MethodJob[T]{Job: mj.Job.Move(), call: mj.call}
	mj.call = nil
	return dst
}
