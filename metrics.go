package jobmanager

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the manager to report queueing and
// execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {
	// IncSubmitted counts a job accepted into lane p.
	IncSubmitted(p Priority)

	// IncRejected counts a submission refused with ErrQueueFull.
	IncRejected(p Priority)

	// IncExecuted counts a job from lane p whose body has returned.
	IncExecuted(p Priority)
}

type laneCounters struct {
	submitted atomic.Uint64
	rejected  atomic.Uint64
	executed  atomic.Uint64
	_         cachePad
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	lanes [NumPriorities]laneCounters
}

func (m *AtomicMetrics) IncSubmitted(p Priority) { m.lanes[p].submitted.Add(1) }
func (m *AtomicMetrics) IncRejected(p Priority)  { m.lanes[p].rejected.Add(1) }
func (m *AtomicMetrics) IncExecuted(p Priority)  { m.lanes[p].executed.Add(1) }

// Submitted returns the number of jobs accepted at priority p.
func (m *AtomicMetrics) Submitted(p Priority) uint64 { return m.lanes[p].submitted.Load() }

// Rejected returns the number of submissions refused at priority p.
func (m *AtomicMetrics) Rejected(p Priority) uint64 { return m.lanes[p].rejected.Load() }

// Executed returns the number of jobs executed at priority p.
func (m *AtomicMetrics) Executed(p Priority) uint64 { return m.lanes[p].executed.Load() }

// TotalExecuted returns the number of executed jobs over all lanes.
func (m *AtomicMetrics) TotalExecuted() uint64 {
	var n uint64
	for i := range m.lanes {
		n += m.lanes[i].executed.Load()
	}
	return n
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (NoopMetrics) IncSubmitted(Priority) {}
func (NoopMetrics) IncRejected(Priority)  {}
func (NoopMetrics) IncExecuted(Priority)  {}
