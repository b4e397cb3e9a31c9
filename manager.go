package jobmanager

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	stateIdle int32 = iota
	stateRunning
	stateStopping
)

// Manager owns the priority lanes and the worker goroutines draining them.
//
// A Manager is an explicit instance: construct it with New, start it with
// Init and tear it down with Shutdown. It can be initialized again after a
// completed Shutdown.
type Manager struct {
	opts Options
	log  *zap.Logger

	// mu serializes Init and Shutdown.
	mu sync.Mutex
	// submitMu is held shared by Submit and exclusively while the manager
	// stops accepting work, so no push races the final drain.
	submitMu sync.RWMutex
	state    atomic.Int32

	lanes   *laneSet
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
	workers int

	active atomic.Int32
}

// New creates a Manager. It does not start any worker.
func New(opts ...Option) *Manager {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return NewFromOptions(o)
}

// NewFromOptions creates a Manager from an Options value.
func NewFromOptions(o Options) *Manager {
	o.FillDefaults()
	return &Manager{
		opts: o,
		log:  o.Logger.Named("jobmanager"),
	}
}

// Init allocates the priority lanes and starts workers goroutines.
// Calling Init on a running manager is a usage defect.
func (m *Manager) Init(workers int) {
	if workers <= 0 {
		defect(ErrInvalidWorkers, "%d", workers)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if st := m.state.Load(); st != stateIdle {
		defect(ErrAlreadyInitialized, "state %d", st)
	}

	lanes := newLaneSet(m.opts.LaneCapacity, m.opts.MaxQueued)
	wake := make(chan struct{}, workers)
	stop := make(chan struct{})
	done := make(chan struct{})

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			return m.worker(i, lanes, wake, stop)
		})
	}
	go func() {
		defer close(done)
		if err := g.Wait(); err != nil {
			m.log.Error("worker exited with error", zap.Error(err))
			m.reportInternalError(err)
		}
	}()

	m.lanes, m.wake, m.stop, m.done = lanes, wake, stop, done
	m.workers = workers
	m.state.Store(stateRunning)

	m.log.Info("job manager started",
		zap.Int("workers", workers),
		zap.Int("lane_capacity", m.opts.LaneCapacity),
		zap.Int("max_queued", m.opts.MaxQueued),
		zap.Bool("pin_workers", m.opts.PinWorkers),
	)
}

// Submit queues j on its priority lane and returns without waiting for it
// to run. The only returned error is ErrQueueFull, in which case j stays
// in the created state and may be resubmitted or closed.
//
// Submitting before Init, during Shutdown, or submitting the same job
// twice is a usage defect.
func (m *Manager) Submit(j *Job) error {
	m.submitMu.RLock()
	defer m.submitMu.RUnlock()

	switch m.state.Load() {
	case stateIdle:
		defect(ErrNotInitialized, "submit %q", j.name)
	case stateStopping:
		defect(ErrClosed, "submit %q", j.name)
	}

	j.submitted()
	if j.invoke == nil {
		j.unsubmit()
		defect(ErrNoInstance, "%q", j.name)
	}

	// j belongs to the workers once pushed.
	prio := j.prio
	if err := m.lanes.push(j); err != nil {
		j.unsubmit()
		m.opts.Metrics.IncRejected(prio)
		return err
	}
	m.opts.Metrics.IncSubmitted(prio)

	select {
	case m.wake <- struct{}{}:
	default:
		// every worker already has a pending wake-up
	}
	return nil
}

// SubmitClosure builds a one-off closure job and submits it. fence may be
// nil. If the job cannot be queued it is closed, which balances fence.
func (m *Manager) SubmitClosure(name string, fn func(), prio Priority, fence *State) error {
	j := NewClosure(name, fn).SetPriority(prio).RegisterFence(fence)
	if err := m.Submit(j); err != nil {
		j.Close()
		return err
	}
	return nil
}

// Shutdown stops accepting jobs and waits until the workers drained every
// lane and exited, or until ctx is done. A Shutdown that timed out can be
// called again to keep waiting. Shutdown on an idle manager returns nil.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	switch m.state.Load() {
	case stateIdle:
		m.mu.Unlock()
		return nil
	case stateRunning:
		m.submitMu.Lock()
		m.state.Store(stateStopping)
		m.submitMu.Unlock()
		close(m.stop)
		m.log.Info("job manager stopping", zap.Int("queued", m.lanes.Len()))
	}
	done := m.done
	m.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		m.log.Warn("job manager shutdown timed out", zap.Error(ctx.Err()))
		return ctx.Err()
	}

	m.mu.Lock()
	if m.state.Load() == stateStopping && m.done == done {
		m.state.Store(stateIdle)
		m.log.Info("job manager stopped")
	}
	m.mu.Unlock()
	return nil
}

// Stop is a blocking Shutdown.
func (m *Manager) Stop() { _ = m.Shutdown(context.Background()) }

// Running reports whether the manager accepts submissions.
func (m *Manager) Running() bool { return m.state.Load() == stateRunning }

// Stats is a point in time view of a Manager.
type Stats struct {
	Running bool
	Workers int
	Active  int
	Queued  [NumPriorities]int
}

// TotalQueued sums Queued over all lanes.
func (s Stats) TotalQueued() int {
	n := 0
	for _, q := range s.Queued {
		n += q
	}
	return n
}

// Stats returns the current worker and lane occupancy.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Running: m.state.Load() == stateRunning,
		Workers: m.workers,
		Active:  int(m.active.Load()),
	}
	if m.lanes != nil {
		for p := range NumPriorities {
			s.Queued[p] = m.lanes.laneLen(Priority(p))
		}
	}
	return s
}

// Metrics returns the metrics policy in use.
func (m *Manager) Metrics() MetricsPolicy { return m.opts.Metrics }
