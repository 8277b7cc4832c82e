package lifecycle

import "github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"

type rule struct {
	// errors by current state; NoError means the verb may run.
	rejections map[State]errcode.Kind
	// next is the state after a successful call; nil keeps the state.
	next *State
}

func stateRef(s State) *State { return &s }

var rules = map[Verb]rule{
	Initialize: {
		rejections: map[State]errcode.Kind{
			Initialized: errcode.AlreadyInitialized,
			Terminated:  errcode.AlreadyTerminated,
		},
		next: stateRef(Initialized),
	},
	Terminate: {
		rejections: map[State]errcode.Kind{
			NotInitialized: errcode.TerminateBeforeInit,
			Terminated:     errcode.TerminateAfterTerminate,
		},
		next: stateRef(Terminated),
	},
	GetValue: {
		rejections: map[State]errcode.Kind{
			NotInitialized: errcode.GetBeforeInit,
			Terminated:     errcode.GetAfterTerminate,
		},
	},
	SetValue: {
		rejections: map[State]errcode.Kind{
			NotInitialized: errcode.SetBeforeInit,
			Terminated:     errcode.SetAfterTerminate,
		},
	},
	Commit: {
		rejections: map[State]errcode.Kind{
			NotInitialized: errcode.CommitBeforeInit,
			Terminated:     errcode.CommitAfterTerminate,
		},
	},
}

// Machine tracks the lifecycle of one RTE instance. It is not safe for
// concurrent use; one content session drives it from a single goroutine.
type Machine struct {
	state State
}

// NewMachine returns a machine in NotInitialized.
func NewMachine() *Machine {
	return &Machine{state: NotInitialized}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Check returns the error kind raised if v were called now, or NoError.
// Informational verbs are always allowed.
func (m *Machine) Check(v Verb) errcode.Kind {
	r, ok := rules[v]
	if !ok {
		return errcode.NoError
	}
	if kind, rejected := r.rejections[m.state]; rejected {
		return kind
	}
	return errcode.NoError
}

// Advance applies the transition of a successful call to v.
func (m *Machine) Advance(v Verb) {
	if r, ok := rules[v]; ok && r.next != nil {
		m.state = *r.next
	}
}

// Reset returns the machine to NotInitialized.
func (m *Machine) Reset() {
	m.state = NotInitialized
}
