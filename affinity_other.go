//go:build !linux

package jobmanager

// PinToCPU is a no-op outside Linux.
func PinToCPU(int) error { return nil }
