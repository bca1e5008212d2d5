package loop

// Phase is the runner's explicit lifecycle token. There is no ambient
// "is running" flag anywhere: callers query and transition this state
// through the runner.
type Phase int32

const (
	Idle Phase = iota
	Running
	Stopping
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}
