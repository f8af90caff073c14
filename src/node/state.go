package node

// State captures the lifecycle of a node: Unassigned until the init handshake
// completes, Assigned afterwards.
type State uint32

const (
	// Unassigned is the initial state. The node has no identifier and no peer
	// roster yet.
	Unassigned State = iota

	// Assigned is the state reached after the init handshake. The node has an
	// identifier and a peer roster.
	Assigned
)

// String ...
func (s State) String() string {
	switch s {
	case Unassigned:
		return "Unassigned"
	case Assigned:
		return "Assigned"
	default:
		return "Unknown"
	}
}

// The run loop is single-threaded, so unlike the state of a gossiping node this
// needs no atomics.
type state struct {
	state State
}

func (b *state) getState() State {
	return b.state
}

func (b *state) setState(s State) {
	b.state = s
}
