package master

// IngestionState is the lifecycle of a single Run.
type IngestionState int

const (
	StateIdle IngestionState = iota
	StateSplitting
	StateDraining
	StateDone
	StateFailed
)

func (s IngestionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSplitting:
		return "splitting"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s IngestionState) running() bool {
	return s == StateSplitting || s == StateDraining
}
