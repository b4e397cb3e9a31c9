package jobmanager

// Priority selects the lane a job is queued on.
//
// Lower values are served first. Dispatch is strict: a worker always takes
// the head of the highest non-empty lane, there is no aging.
type Priority uint8

const (
	PriorityHigh Priority = iota
	PriorityRegular
	PriorityLow
	PriorityStream

	// NumPriorities is the number of lanes.
	NumPriorities = int(PriorityStream) + 1
)

func (p Priority) Valid() bool { return int(p) < NumPriorities }

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityRegular:
		return "regular"
	case PriorityLow:
		return "low"
	case PriorityStream:
		return "stream"
	default:
		return "unknown"
	}
}
