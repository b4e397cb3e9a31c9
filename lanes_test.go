package jobmanager

import (
	"sync"
	"testing"
)

func laneJob(name string, p Priority) *Job {
	j := newJob(name)
	j.prio = p
	return j
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{
		-1:   1,
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		1000: 1024,
		1024: 1024,
		1025: 2048,
	}
	for in, want := range cases {
		if got := nextPow2(in); got != want {
			t.Errorf("nextPow2(%d) = %d; want %d", in, got, want)
		}
	}
}

func TestLaneSetFIFOWithinLane(t *testing.T) {
	s := newLaneSet(4, 0)

	const n = 100 // forces several grow steps
	jobs := make([]*Job, n)
	for i := range jobs {
		jobs[i] = laneJob("fifo", PriorityRegular)
		if err := s.push(jobs[i]); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if s.Len() != n || s.laneLen(PriorityRegular) != n {
		t.Fatalf("len = %d / %d; want %d", s.Len(), s.laneLen(PriorityRegular), n)
	}

	for i := range jobs {
		j, ok := s.pop()
		if !ok {
			t.Fatalf("pop %d: empty", i)
		}
		if j != jobs[i] {
			t.Fatalf("pop %d returned job out of order", i)
		}
	}
	if _, ok := s.pop(); ok {
		t.Fatal("pop on empty set returned a job")
	}
	if s.bitmap.Load() != 0 {
		t.Fatalf("bitmap = %b after drain; want 0", s.bitmap.Load())
	}
}

func TestLaneSetGrowKeepsOrderAfterWrap(t *testing.T) {
	s := newLaneSet(4, 0)

	// Move head forward so the ring wraps before it grows.
	for i := 0; i < 3; i++ {
		_ = s.push(laneJob("warm", PriorityLow))
		_, _ = s.pop()
	}

	var want []*Job
	for i := 0; i < 9; i++ {
		j := laneJob("wrap", PriorityLow)
		want = append(want, j)
		if err := s.push(j); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	for i, w := range want {
		if j, _ := s.pop(); j != w {
			t.Fatalf("pop %d out of order after grow", i)
		}
	}
}

func TestLaneSetPriorityOrder(t *testing.T) {
	s := newLaneSet(8, 0)

	order := []Priority{PriorityStream, PriorityLow, PriorityHigh, PriorityRegular, PriorityHigh}
	for _, p := range order {
		_ = s.push(laneJob(p.String(), p))
	}

	want := []Priority{PriorityHigh, PriorityHigh, PriorityRegular, PriorityLow, PriorityStream}
	for i, p := range want {
		j, ok := s.pop()
		if !ok {
			t.Fatalf("pop %d: empty", i)
		}
		if j.prio != p {
			t.Fatalf("pop %d priority = %s; want %s", i, j.prio, p)
		}
	}
}

func TestLaneSetMaxQueued(t *testing.T) {
	s := newLaneSet(1, 3)

	for i := 0; i < 3; i++ {
		if err := s.push(laneJob("bounded", PriorityStream)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := s.push(laneJob("bounded", PriorityStream)); err != ErrQueueFull {
		t.Fatalf("push over max = %v; want ErrQueueFull", err)
	}
	if err := s.push(laneJob("other", PriorityHigh)); err != nil {
		t.Fatalf("push on other lane: %v", err)
	}

	_, _ = s.pop() // high
	_, _ = s.pop() // first stream
	if err := s.push(laneJob("bounded", PriorityStream)); err != nil {
		t.Fatalf("push after pop: %v", err)
	}
}

func TestLaneSetConcurrent(t *testing.T) {
	s := newLaneSet(16, 0)

	const (
		producers = 8
		perProd   = 2000
		consumers = 4
		total     = producers * perProd
	)

	var (
		seenMu sync.Mutex
		seen   = make(map[*Job]int, total)
		wg     sync.WaitGroup
		done   = make(chan struct{})
	)

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProd; i++ {
				j := laneJob("mpmc", Priority((p+i)%NumPriorities))
				if err := s.push(j); err != nil {
					t.Errorf("push: %v", err)
					return
				}
			}
		}(p)
	}

	var cwg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			for {
				j, ok := s.pop()
				if ok {
					seenMu.Lock()
					seen[j]++
					seenMu.Unlock()
					continue
				}
				select {
				case <-done:
					if s.Len() == 0 {
						return
					}
				default:
				}
			}
		}()
	}

	wg.Wait()
	close(done)
	cwg.Wait()

	if len(seen) != total {
		t.Fatalf("popped %d distinct jobs; want %d", len(seen), total)
	}
	for _, n := range seen {
		if n != 1 {
			t.Fatalf("job popped %d times", n)
		}
	}
	if s.Len() != 0 || s.bitmap.Load() != 0 {
		t.Fatalf("len=%d bitmap=%b after drain", s.Len(), s.bitmap.Load())
	}
}
