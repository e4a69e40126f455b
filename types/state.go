package types

// State represents the lifecycle state of a gateway worker or the simulator.
//
// States follow a single forward progression:
//
//	StateCreated → StateRunning → StateStopping → StateStopped
//
// StateStopping is entered when the shutdown signal is observed; StateStopped
// is entered once the in-flight iteration has completed. There is no
// transition back from StateStopped.
type State int32

const (
	// StateCreated is the initial state before Start.
	StateCreated State = iota

	// StateRunning indicates the iteration loop is active.
	StateRunning

	// StateStopping indicates the shutdown signal was observed and the
	// current iteration is being allowed to finish.
	StateStopping

	// StateStopped is the terminal state after the loop has exited.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
