// Package listener dispatches RTE calls to host callbacks keyed by verb and,
// optionally, by exact element path.
package listener

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
)

// Event describes one RTE call.
type Event struct {
	Verb    lifecycle.Verb
	Element string
	// Value is the value written by SetValue or returned by GetValue.
	Value string
}

// Listener receives events synchronously on the calling goroutine.
type Listener func(Event)

type binding struct {
	verb    lifecycle.Verb
	element string
	fn      Listener
}

// Bus holds listener bindings in registration order. A panicking listener
// is not recovered.
type Bus struct {
	bindings []binding
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{}
}

// On binds fn to every space separated token in spec. A token is a verb
// name ("Commit", "LMSCommit") or a verb qualified by an element
// ("SetValue.cmi.core.lesson_status").
func (b *Bus) On(spec string, fn Listener) error {
	if fn == nil {
		return errors.New("listener is required")
	}
	tokens := strings.Fields(spec)
	if len(tokens) == 0 {
		return errors.New("listener needs at least one verb")
	}
	parsed := make([]binding, 0, len(tokens))
	for _, token := range tokens {
		name, element, _ := strings.Cut(token, ".")
		verb, ok := lifecycle.ParseVerb(name)
		if !ok {
			return fmt.Errorf("unknown verb %q in listener spec", name)
		}
		parsed = append(parsed, binding{verb: verb, element: element, fn: fn})
	}
	b.bindings = append(b.bindings, parsed...)
	return nil
}

// Notify invokes every listener whose verb matches and whose element, when
// bound, equals the event element.
func (b *Bus) Notify(ev Event) {
	for _, bnd := range b.bindings {
		if bnd.verb != ev.Verb {
			continue
		}
		if bnd.element != "" && bnd.element != ev.Element {
			continue
		}
		bnd.fn(ev)
	}
}

// Clear removes every binding.
func (b *Bus) Clear() {
	b.bindings = nil
}

// Len returns the number of bindings.
func (b *Bus) Len() int {
	return len(b.bindings)
}
