package reader

// StateType represents the playback state of the engine.
type StateType int

const (
	// StateIdle indicates no advancement mechanism is active.
	StateIdle StateType = iota
	// StateRunning indicates the cursor is being advanced, either by the
	// self-timed clock or by narration callbacks.
	StateRunning
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}
