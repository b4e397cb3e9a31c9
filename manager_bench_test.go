package jobmanager_test

import (
	"math"
	"math/rand"
	"runtime"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	jm "github.com/azargarov/jobmanager"
)

var seedCounter atomic.Int64

// -----------------------------------------------------------------------------
// Throughput
// -----------------------------------------------------------------------------

func BenchmarkManager_Throughput(b *testing.B) {
	cases := []struct {
		name    string
		workers int
		pinned  bool
		mixed   bool
	}{
		{"W1/fixed", 1, false, false},
		{"WN/fixed", runtime.GOMAXPROCS(0), false, false},
		{"WN/mixed", runtime.GOMAXPROCS(0), false, true},
		{"WN/mixedP", runtime.GOMAXPROCS(0), true, true},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			runThroughputBench(b, tc.workers, tc.pinned, tc.mixed)
		})
	}
}

func runThroughputBench(b *testing.B, workers int, pinned, mixed bool) {
	m := jm.New(
		jm.WithMetrics(jm.NoopMetrics{}),
		jm.WithPinWorkers(pinned),
	)
	m.Init(workers)
	defer m.Stop()

	var (
		executed atomic.Int64
		fence    jm.State
	)
	work := func() { executed.Add(1) }

	b.ReportAllocs()
	b.ResetTimer()
	start := time.Now()
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(seedCounter.Add(1)))
		for pb.Next() {
			prio := jm.PriorityRegular
			if mixed {
				prio = jm.Priority(r.Intn(jm.NumPriorities))
			}
			if err := m.SubmitClosure("bench", work, prio, &fence); err != nil {
				b.Fatalf("submit failed: %v", err)
			}
		}
	})
	fence.Wait()

	secs := time.Since(start).Seconds()
	kjps := math.Round((float64(executed.Load()) / secs) / 1e3)
	b.ReportMetric(kjps, "kj/s")
}

// -----------------------------------------------------------------------------
// Fence round trip
// -----------------------------------------------------------------------------

var benchAddJob = jm.DeclareFunc2("BenchAdd", func(dst *atomic.Int64, n int64) { dst.Add(n) })

func BenchmarkManager_FenceRoundTrip(b *testing.B) {
	batch := getenvInt("BATCH", 64)

	m := jm.New(jm.WithMetrics(jm.NoopMetrics{}))
	m.Init(runtime.GOMAXPROCS(0))
	defer m.Stop()

	var sum atomic.Int64
	b.ReportAllocs()

	for b.Loop() {
		var fence jm.State
		for i := 0; i < batch; i++ {
			if err := benchAddJob.New(&sum, 1).RegisterFence(&fence).Run(m); err != nil {
				b.Fatalf("run failed: %v", err)
			}
		}
		fence.Wait()
	}
}

// -----------------------------------------------------------------------------
// Latency
// -----------------------------------------------------------------------------

func BenchmarkManager_Latency(b *testing.B) {
	workers := getenvInt("WORKERS", runtime.GOMAXPROCS(0))
	pinned := getenvInt("PINNED", 0) > 0

	m := jm.New(
		jm.WithMetrics(jm.NoopMetrics{}),
		jm.WithPinWorkers(pinned),
	)
	m.Init(workers)
	defer m.Stop()

	var (
		executed  atomic.Int64
		submitted atomic.Int64
		idx       atomic.Int64
		fence     jm.State
	)
	latencies := make([]int64, b.N)
	record := func(start time.Time) {
		i := idx.Add(1) - 1
		if i < int64(len(latencies)) {
			latencies[i] = time.Since(start).Nanoseconds()
		}
		executed.Add(1)
	}
	decl := jm.DeclareFunc1("Latency", record)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		maxInflight := int64(workers * 32)
		for pb.Next() {
			for submitted.Load()-executed.Load() > maxInflight {
				runtime.Gosched()
			}
			submitted.Add(1)
			if err := decl.New(time.Now()).RegisterFence(&fence).Run(m); err != nil {
				b.Fatalf("run failed: %v", err)
			}
		}
	})
	fence.Wait()
	b.StopTimer()

	n := int(idx.Load())
	if n > len(latencies) {
		n = len(latencies)
	}
	if n == 0 {
		return
	}
	lat := latencies[:n]
	slices.Sort(lat)
	b.ReportMetric(float64(lat[n/2])/1e3, "p50_us")
	b.ReportMetric(float64(lat[n*99/100])/1e3, "p99_us")
}
