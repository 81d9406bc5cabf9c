package runtime

// State is the core lifecycle state.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateStarted
	StateShuttingDown
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateStarted:
		return "started"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
