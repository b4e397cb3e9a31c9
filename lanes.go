package jobmanager

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

const (
	// DefaultLaneCapacity is the initial ring size of every lane.
	DefaultLaneCapacity = 1024
)

// lane is a FIFO ring of jobs for one priority level.
//
// The ring doubles when full instead of dropping, up to max jobs when max
// is positive.
type lane struct {
	mu   sync.Mutex
	buf  []*Job
	head uint64
	tail uint64
	mask uint64 // len(buf) - 1, buf size must be power of 2
	max  int
	_    cachePad
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}

func (l *lane) init(capacity, max int) {
	capacity = nextPow2(capacity)
	l.buf = make([]*Job, capacity)
	l.mask = uint64(capacity - 1)
	l.head, l.tail = 0, 0
	l.max = max
}

// used must be called with mu held.
func (l *lane) used() int { return int(l.tail - l.head) }

func (l *lane) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used()
}

// grow must be called with mu held.
func (l *lane) grow() {
	n := l.used()
	buf := make([]*Job, len(l.buf)*2)
	for i := 0; i < n; i++ {
		buf[i] = l.buf[(l.head+uint64(i))&l.mask]
	}
	l.buf = buf
	l.mask = uint64(len(buf) - 1)
	l.head = 0
	l.tail = uint64(n)
}

// laneSet holds one lane per priority and a bitmap of the non-empty ones.
//
// A lane's bit is only changed while that lane's mutex is held, so at
// every unlock the bit matches the lane's emptiness. Readers of the bitmap
// re-check under the lock.
type laneSet struct {
	lanes  [NumPriorities]lane
	bitmap atomic.Uint64
	_      cachePad
	length atomic.Int64
}

func newLaneSet(capacity, max int) *laneSet {
	if capacity <= 0 {
		capacity = DefaultLaneCapacity
	}
	s := &laneSet{}
	for i := range s.lanes {
		s.lanes[i].init(capacity, max)
	}
	return s
}

// push appends j to the tail of its priority lane.
func (s *laneSet) push(j *Job) error {
	idx := int(j.prio)
	l := &s.lanes[idx]
	l.mu.Lock()

	used := l.used()
	if l.max > 0 && used >= l.max {
		l.mu.Unlock()
		return ErrQueueFull
	}
	if used == len(l.buf) {
		l.grow()
	}

	l.buf[l.tail&l.mask] = j
	l.tail++
	laneDbgIncPush(idx)

	if used == 0 {
		s.bitmap.Or(uint64(1) << uint(idx))
	}

	l.mu.Unlock()
	s.length.Add(1)
	return nil
}

// pop removes the head of the highest priority non-empty lane.
func (s *laneSet) pop() (*Job, bool) {
	for {
		bitmap := s.bitmap.Load()
		if bitmap == 0 {
			return nil, false
		}

		idx := bits.TrailingZeros64(bitmap)
		if idx >= NumPriorities {
			return nil, false
		}

		l := &s.lanes[idx]
		l.mu.Lock()

		if l.head == l.tail {
			s.bitmap.And(^(uint64(1) << uint(idx)))
			l.mu.Unlock()
			laneDbgIncMiss(idx)
			continue
		}

		pos := l.head & l.mask
		j := l.buf[pos]
		l.buf[pos] = nil
		l.head++

		if l.head == l.tail {
			s.bitmap.And(^(uint64(1) << uint(idx)))
		}

		l.mu.Unlock()
		laneDbgIncPop(idx)
		s.length.Add(-1)
		return j, true
	}
}

// Len returns the number of queued jobs across all lanes.
func (s *laneSet) Len() int { return int(s.length.Load()) }

// laneLen returns the number of jobs queued at priority p.
func (s *laneSet) laneLen(p Priority) int { return s.lanes[p].len() }
