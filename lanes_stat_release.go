//go:build !debug

package jobmanager

func laneDbgIncPush(int) {}
func laneDbgIncPop(int)  {}
func laneDbgIncMiss(int) {}

// LaneDebugStats returns an empty string unless built with the debug tag.
func LaneDebugStats() string { return "" }
