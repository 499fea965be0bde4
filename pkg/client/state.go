package client

// State is the lifecycle state of a Manager's connection.
type State int32

const (
	StateIdle       State = iota // no connection attempted yet
	StateConnecting              // socket opened, waiting for the handshake
	StateOpen                    // frames can be sent
	StateClosed                  // last socket closed or failed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateConnecting:
		return "Connecting"
	case StateOpen:
		return "Open"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
