//go:build linux

package jobmanager

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling OS thread to cpu. The caller must have
// locked its goroutine to the thread.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	if cpu >= 0 {
		mask.Set(cpu)
	}
	// Set ignores indexes beyond the mask.
	if mask.Count() != 1 {
		return fmt.Errorf("cpu %d out of range", cpu)
	}
	return unix.SchedSetaffinity(0, &mask)
}
