// Package jobmanager schedules in-process jobs on a fixed pool of worker
// goroutines and lets callers wait for their completion.
//
// Jobs
//
// A Job packages a callable together with copies of its arguments:
//
//   - free functions: NewFunc, NewFunc1 .. NewFunc3
//   - methods on a caller owned instance: NewMethod, NewMethod1 .. NewMethod3,
//     bound with MethodJob.SetInstance
//   - closures: NewClosure, NewClosure1
//
// Arguments are copied when the job is built, so a job stays valid after
// the frame that built it returned. Argument types that share memory
// through a plain copy implement Cloner to hand the job its own copy.
// Values implementing Releaser are released right after the body ran.
//
// The Declare* helpers fix a name and a signature once and stamp out
// descriptors with New.
//
// Lifecycle
//
// A job moves through created, submitted, executing and completed. It
// can be configured (SetPriority, RegisterFence, Defer, WithContext) and
// moved to a new owner (Move) only while created. Submitting twice,
// closing a queued job or running a method job without an instance are
// usage defects and panic with a *UsageError.
//
// Fences
//
// A State counts registered, unfinished jobs. Many jobs may register on
// one State and any number of goroutines may Wait on it. Wait returns once
// every registered job ran and released its captured values; all their
// side effects are visible to the waiter.
//
// Scheduling
//
// The Manager keeps one FIFO lane per Priority and a bitmap of non-empty
// lanes. Workers always take the head of the highest non-empty lane.
// Priority is strict, there is no aging, and a running job is never
// preempted. Submit never blocks and never runs the job on the caller.
//
// Shutdown stops accepting work, lets workers drain every lane, and joins
// them.
//
// Instrumentation
//
// Hooks see a Section around every job body. The otelhook subpackage
// turns sections into OpenTelemetry spans and metrics. MetricsPolicy
// counts submitted, rejected and executed jobs per lane.
//
// Errors
//
// Job bodies are opaque to the manager. A panic in a body crashes the
// process unless Options.RecoverPanics is set, in which case it is
// reported through Options.OnJobError and the job still completes.
package jobmanager
