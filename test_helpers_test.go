package jobmanager_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	jm "github.com/azargarov/jobmanager"
)

func newTestManager(t *testing.T, workers int, opts ...jm.Option) *jm.Manager {
	t.Helper()

	m := jm.New(opts...)
	m.Init(workers)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Shutdown(ctx); err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	})
	return m
}

// gate parks workers on high priority jobs until opened.
type gate struct {
	release chan struct{}
	once    sync.Once
	fence   jm.State
}

// blockWorkers occupies n workers of m and returns once all of them are
// inside a gate job.
func blockWorkers(t *testing.T, m *jm.Manager, n int) *gate {
	t.Helper()

	g := &gate{release: make(chan struct{})}
	t.Cleanup(g.open)

	started := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		err := m.SubmitClosure("gate", func() {
			started <- struct{}{}
			<-g.release
		}, jm.PriorityHigh, &g.fence)
		if err != nil {
			t.Fatalf("submit gate: %v", err)
		}
	}
	for i := 0; i < n; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("gate job did not start")
		}
	}
	return g
}

func (g *gate) open() {
	g.once.Do(func() { close(g.release) })
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func waitFence(t *testing.T, s *jm.State) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.WaitContext(ctx); err != nil {
		t.Fatalf("fence wait: %v (pending %d)", err, s.Pending())
	}
}

// expectDefect runs fn and checks it panics with a *UsageError wrapping want.
func expectDefect(t *testing.T, want error, fn func()) {
	t.Helper()

	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", want)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v (%T) is not an error", r, r)
		}
		var ue *jm.UsageError
		if !errors.As(err, &ue) {
			t.Fatalf("panic %v is not a *UsageError", err)
		}
		if !errors.Is(err, want) {
			t.Fatalf("panic = %v; want %v", err, want)
		}
	}()
	fn()
}

func getenvInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
