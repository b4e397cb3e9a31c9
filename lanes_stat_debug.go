//go:build debug

package jobmanager

import (
	"fmt"
	"strings"
	"sync/atomic"
)

type laneDebug struct {
	pushes atomic.Uint64
	pops   atomic.Uint64
	misses atomic.Uint64
}

var laneDbg [NumPriorities]laneDebug

func laneDbgIncPush(i int) { laneDbg[i].pushes.Add(1) }
func laneDbgIncPop(i int)  { laneDbg[i].pops.Add(1) }
func laneDbgIncMiss(i int) { laneDbg[i].misses.Add(1) }

// LaneDebugStats dumps per-lane push, pop and stale-bitmap miss counters.
// Counters are process wide and only collected with the debug build tag.
func LaneDebugStats() string {
	var b strings.Builder
	for i := range laneDbg {
		p := laneDbg[i].pushes.Load()
		c := laneDbg[i].pops.Load()
		m := laneDbg[i].misses.Load()
		if p|c|m != 0 {
			fmt.Fprintf(&b, "lane[%s]: push=%d pop=%d miss=%d\n", Priority(i), p, c, m)
		}
	}
	return b.String()
}
