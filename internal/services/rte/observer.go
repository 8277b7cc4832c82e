package rte

import (
	"time"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
)

// Call describes one completed verb.
type Call struct {
	Instance string
	Version  scorm.Version
	Verb     lifecycle.Verb
	Element  string
	Value    string
	Result   string
	Kind     errcode.Kind
	Code     int
	Started  time.Time
	Duration time.Duration
}

// Failed reports whether the call raised an error.
func (c Call) Failed() bool {
	return c.Kind != errcode.NoError
}

// Observer receives every completed call, after listeners and logging.
type Observer interface {
	ObserveCall(Call)
}

// ResetObserver is implemented by observers that track instance resets.
// prior is the lifecycle state the instance held before the reset.
type ResetObserver interface {
	ObserveReset(instance string, version scorm.Version, prior lifecycle.State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Call)

// ObserveCall implements Observer.
func (f ObserverFunc) ObserveCall(c Call) {
	f(c)
}
