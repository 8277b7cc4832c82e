// Package lifecycle gates RTE verbs on the content session state.
//
// A session moves NotInitialized -> Initialized -> Terminated and never
// returns. Each data verb has its own "before initialization" and "after
// termination" error kinds so the version tables can report distinct codes.
package lifecycle

// State is the lifecycle position of one RTE instance.
type State int

const (
	NotInitialized State = iota
	Initialized
	Terminated
)

func (s State) String() string {
	switch s {
	case NotInitialized:
		return "not_initialized"
	case Initialized:
		return "initialized"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
