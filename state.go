package jobmanager

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// cachePad is used to prevent false sharing between hot fields.
type cachePad = cpu.CacheLinePad

// closedCh is returned by Done for a fence with nothing outstanding.
var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// State is a completion fence.
//
// Every job bound to a State increments its outstanding count once when
// it is registered and decrements it once after the job body returned and
// its captured values were released. Any number of goroutines may Wait on
// the same State; all of them return once the count reaches zero.
//
// The zero value is ready to use. A State must outlive every job
// registered on it.
type State struct {
	pending atomic.Int64
	_       cachePad

	mu sync.Mutex
	// done is closed on the transition to zero and replaced on the
	// transition away from it.
	done chan struct{}
}

// Register adds one outstanding job to the fence.
func (s *State) Register() {
	s.mu.Lock()
	if s.pending.Load() == 0 {
		s.done = make(chan struct{})
	}
	s.pending.Add(1)
	s.mu.Unlock()
}

// Signal marks one registered job as finished. Waiters are released when
// the count reaches zero. Signalling more often than registering panics.
func (s *State) Signal() {
	s.mu.Lock()
	n := s.pending.Add(-1)
	if n < 0 {
		s.pending.Store(0)
		s.mu.Unlock()
		defect(ErrNegativeFence, "signal without matching register")
	}
	if n == 0 {
		close(s.done)
	}
	s.mu.Unlock()
}

// Wait blocks until no registered job is outstanding.
func (s *State) Wait() {
	<-s.Done()
}

// WaitContext is Wait bounded by ctx. Abandoning the wait does not affect
// the jobs themselves.
func (s *State) WaitContext(ctx context.Context) error {
	select {
	case <-s.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed once the outstanding count is zero.
// The channel reflects the count at the time of the call; a later Register
// starts a new cycle with a new channel.
func (s *State) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending.Load() == 0 {
		return closedCh
	}
	return s.done
}

// IsRunning reports whether any registered job is still outstanding.
func (s *State) IsRunning() bool { return s.pending.Load() > 0 }

// Pending returns the number of outstanding jobs.
func (s *State) Pending() int64 { return s.pending.Load() }
