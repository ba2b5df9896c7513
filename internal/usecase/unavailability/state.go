package unavailability

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

// State is the position of an attempt in the conflict resolution flow.
type State string

const (
	StateDraft             State = "draft"
	StateValidating        State = "validating"
	StateClean             State = "clean"
	StateConflictPresented State = "conflict_presented"
	StateResolving         State = "resolving"
)

var transitions = map[State][]State{
	StateDraft:             {StateValidating},
	StateValidating:        {StateClean, StateConflictPresented, StateDraft},
	StateConflictPresented: {StateResolving, StateDraft},
	StateResolving:         {StateClean, StateConflictPresented, StateDraft},
}

func (s State) CanMoveTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool {
	return s == StateClean
}

func checkTransition(from, to State) error {
	if !from.CanMoveTo(to) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
