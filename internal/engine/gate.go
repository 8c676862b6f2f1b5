package engine

// Gate is the chat input state.
//
//	any      --status not live-------------> Disabled
//	Disabled --status live, not awaiting---> Idle
//	Disabled --status live, awaiting-------> Awaiting
//	Idle     --valid submission------------> Awaiting
//	Awaiting --exchange finished-----------> Idle (Disabled if not live)
//
// Liveness wins: the input is usable only in Idle.
type Gate int

const (
	GateDisabled Gate = iota
	GateIdle
	GateAwaiting
)

// String returns a human-readable gate state.
func (g Gate) String() string {
	switch g {
	case GateDisabled:
		return "disabled"
	case GateIdle:
		return "idle"
	case GateAwaiting:
		return "awaiting-response"
	default:
		return "unknown"
	}
}

// InputEnabled reports whether the input and send control accept input.
func (g Gate) InputEnabled() bool { return g == GateIdle }

// gateMachine tracks the two facts the gate derives from.
type gateMachine struct {
	live     bool
	awaiting bool
}

func (m gateMachine) state() Gate {
	switch {
	case !m.live:
		return GateDisabled
	case m.awaiting:
		return GateAwaiting
	default:
		return GateIdle
	}
}

// setLive applies a liveness sample and returns the before/after states.
func (m *gateMachine) setLive(live bool) (from, to Gate) {
	from = m.state()
	m.live = live
	return from, m.state()
}

// begin enters Awaiting. It fails unless the gate is Idle.
func (m *gateMachine) begin() (from, to Gate, ok bool) {
	from = m.state()
	if from != GateIdle {
		return from, from, false
	}
	m.awaiting = true
	return from, m.state(), true
}

// finish leaves Awaiting unconditionally.
func (m *gateMachine) finish() (from, to Gate) {
	from = m.state()
	m.awaiting = false
	return from, m.state()
}
