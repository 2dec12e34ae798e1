// Package run drives one submit-and-render cycle against the model service.
//
// The lifecycle is an explicit state machine. Every change of state goes
// through Transition, which rejects anything outside
//
//	Idle -> Submitting -> Succeeded | Failed -> Idle
package run

import "fmt"

// State is the lifecycle state of a submission
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Submitting:
		return "Submitting"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// IsTerminal reports whether the state ends a submission
func IsTerminal(s State) bool {
	return s == Succeeded || s == Failed
}

// Transition moves *cur from `from` to `to`.
//
// The caller supplies the expected prior state so races are observable. cur is
// changed if and only if the transition is valid.
func Transition(cur *State, from, to State) error {
	if *cur != from {
		return fmt.Errorf("invalid transition: expected %s, got %s", from, *cur)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}
	*cur = to
	return nil
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case Idle:
		return to == Submitting
	case Submitting:
		return to == Succeeded || to == Failed
	case Succeeded, Failed:
		return to == Idle
	default:
		return false
	}
}
