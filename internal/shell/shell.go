// Package shell holds the presentation state shared by the terminal and
// browser surfaces. Every transition is a pure function of the old state
// and an event.
package shell

import "weather-now/internal/weather"

// Phase identifies what the shell is currently showing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDisplaying
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseDisplaying:
		return "displaying"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Ticket identifies one search. Only the most recently issued ticket may
// change the state.
type Ticket struct {
	Seq   uint64
	Query string
}

// State is the user-visible shell state. Reading and Message are never
// both set.
type State struct {
	Query   string
	Reading *weather.Reading
	Message string

	seq uint64
}

// New returns an idle state with the query box pre-filled.
func New(initialQuery string) State {
	return State{Query: initialQuery}
}

// Phase derives the display phase from the state.
func (s State) Phase() Phase {
	switch {
	case s.Reading != nil:
		return PhaseDisplaying
	case s.Message != "":
		return PhaseFailed
	default:
		return PhaseIdle
	}
}

// Edit replaces the query text. It never starts a lookup.
func (s State) Edit(query string) State {
	s.Query = query
	return s
}

// Search starts a new lookup for the current query. The error message is
// cleared immediately; a displayed reading stays until the outcome lands.
func (s State) Search() (State, Ticket) {
	s.seq++
	s.Message = ""
	return s, Ticket{Seq: s.seq, Query: s.Query}
}

// Resolve applies a lookup outcome. Outcomes for superseded tickets are
// dropped so the latest search always wins.
func (s State) Resolve(t Ticket, out weather.Outcome) State {
	if t.Seq != s.seq {
		return s
	}

	if out.OK() {
		reading := out.Reading
		s.Reading = &reading
		s.Message = ""
		return s
	}

	s.Reading = nil
	s.Message = out.Message
	if s.Message == "" {
		s.Message = weather.MessageFetchFailed
	}
	return s
}

// Current reports whether t is the latest issued ticket.
func (s State) Current(t Ticket) bool {
	return t.Seq == s.seq
}
