// Package session implements the venue's session state machine: the
// directed graph of legal state transitions gating which book/match
// operations callers may perform.
package session

import (
	"fmt"

	"go.uber.org/zap"
)

// State is one node of the session lifecycle.
type State int

const (
	Idle State = iota
	Start
	PreAuction
	CallAuction
	Trading
	Pause
	Break
	Stop
	End
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Start:
		return "Start"
	case PreAuction:
		return "PreAuction"
	case CallAuction:
		return "CallAuction"
	case Trading:
		return "Trading"
	case Pause:
		return "Pause"
	case Break:
		return "Break"
	case Stop:
		return "Stop"
	case End:
		return "End"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// legalNext maps a state to the set of states it may transition into.
var legalNext = map[State]map[State]bool{
	Idle:        {Start: true},
	Start:       {PreAuction: true, Stop: true},
	PreAuction:  {CallAuction: true, Stop: true},
	CallAuction: {Trading: true},
	Trading:     {Pause: true, Break: true, Stop: true},
	Pause:       {Trading: true, Stop: true},
	Break:       {Trading: true, Stop: true},
	Stop:        {Idle: true, End: true, Start: true},
	End:         {Idle: true},
}

// Machine tracks the current session state. OnIdle, if set, is invoked
// as a side effect whenever the machine transitions into Idle — the
// engine wires this to clear books and the deal log without session
// importing engine.
type Machine struct {
	state  State
	OnIdle func()
	log    *zap.Logger
}

// New returns a machine starting in Idle.
func New(log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{state: Idle, log: log}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Review reports whether next is a legal transition from the current state.
func (m *Machine) Review(next State) bool {
	return legalNext[m.state][next]
}

// Transition applies next if legal, running side effects, and returns
// whether it was accepted. Illegal transitions are rejected and logged
// at warn; the state is left unchanged.
func (m *Machine) Transition(next State) bool {
	if !m.Review(next) {
		m.log.Warn("illegal session transition",
			zap.Stringer("from", m.state), zap.Stringer("to", next))
		return false
	}
	m.state = next
	if next == Idle && m.OnIdle != nil {
		m.OnIdle()
	}
	return true
}

// CanBook reports whether orders may be booked in the current state.
func (m *Machine) CanBook() bool {
	return m.state == PreAuction || m.state == Trading
}

// IsTrading reports whether the session is in continuous trading.
func (m *Machine) IsTrading() bool {
	return m.state == Trading
}
