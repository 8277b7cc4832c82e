package scenario

import (
	"context"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/listener"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch step.Kind {
	case "load":
		return r.runLoadStep(state, step)
	case "initialize":
		return r.checkCall(state, step, state.api.Initialize(), resultTrue)
	case "terminate":
		return r.checkCall(state, step, state.api.Terminate(), resultTrue)
	case "commit":
		return r.checkCall(state, step, state.api.Commit(), resultTrue)
	case "get":
		return r.runGetStep(state, step)
	case "set":
		return r.runSetStep(state, step)
	case "expect_error":
		return r.runExpectErrorStep(state, step)
	case "expect_state":
		return r.runExpectStateStep(state, step)
	case "expect_snapshot":
		return r.runExpectSnapshotStep(state, step)
	case "listen":
		return r.runListenStep(state, step)
	case "expect_events":
		return r.runExpectEventsStep(state, step)
	case "reset":
		state.api.Reset()
		state.events = map[string][]listener.Event{}
		return nil
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runLoadStep(state *scenarioState, step Step) error {
	data, _ := step.Args["data"].(map[string]any)
	if err := state.api.Load(data); err != nil {
		return r.assertf("load: %v", err)
	}
	return nil
}

func (r *Runner) runGetStep(state *scenarioState, step Step) error {
	element := stringArg(step.Args, "element")
	value := state.api.GetValue(element)
	r.logf("get %s = %q", element, value)
	return r.checkCall(state, step, value, "")
}

func (r *Runner) runSetStep(state *scenarioState, step Step) error {
	element := stringArg(step.Args, "element")
	value := stringArg(step.Args, "value")
	r.logf("set %s = %q", element, value)
	return r.checkCall(state, step, state.api.SetValue(element, value), resultTrue)
}

func (r *Runner) runExpectErrorStep(state *scenarioState, step Step) error {
	want := stringArg(step.Args, "code")
	if got, diagnostic := state.api.LastError(); got != want {
		return r.assertf("last error = %s (%s), want %s", got, diagnostic, want)
	}
	return nil
}

func (r *Runner) runExpectStateStep(state *scenarioState, step Step) error {
	want := stringArg(step.Args, "state")
	if got := state.api.State().String(); got != want {
		return r.assertf("state = %s, want %s", got, want)
	}
	return nil
}

func (r *Runner) runExpectSnapshotStep(state *scenarioState, step Step) error {
	path := stringArg(step.Args, "path")
	got, err := jsonpath.Get(path, state.api.Snapshot().Map())
	if err != nil {
		return r.assertf("snapshot %s: %v", path, err)
	}
	if !valuesEqual(got, step.Args["expect"]) {
		return r.assertf("snapshot %s = %v, want %v", path, got, step.Args["expect"])
	}
	return nil
}

func (r *Runner) runListenStep(state *scenarioState, step Step) error {
	spec := stringArg(step.Args, "spec")
	if _, ok := state.events[spec]; ok {
		return nil
	}
	state.events[spec] = []listener.Event{}
	err := state.api.On(spec, func(e listener.Event) {
		state.events[spec] = append(state.events[spec], e)
	})
	if err != nil {
		delete(state.events, spec)
		return r.failf("listen %q: %v", spec, err)
	}
	return nil
}

func (r *Runner) runExpectEventsStep(state *scenarioState, step Step) error {
	spec := stringArg(step.Args, "spec")
	events, ok := state.events[spec]
	if !ok {
		return r.failf("no listener registered for %q", spec)
	}
	want, _ := step.Args["count"].(int)
	if len(events) != want {
		return r.assertf("events for %q = %d, want %d", spec, len(events), want)
	}
	return nil
}

// checkCall compares a verb result with the step's expectations. A step that
// names an expected error code expects the verb to fail unless it also names
// a result.
func (r *Runner) checkCall(state *scenarioState, step Step, got, defaultWant string) error {
	wantErr, hasErr := step.Args["expect_error"]
	want, hasWant := step.Args["expect"]
	switch {
	case hasWant:
	case hasErr && defaultWant == resultTrue:
		want, hasWant = resultFalse, true
	case defaultWant != "":
		want, hasWant = defaultWant, true
	}
	if hasWant && got != formatValue(want) {
		code, diagnostic := state.api.LastError()
		return r.assertf("%s returned %q, want %q (last error %s: %s)", step.Kind, got, formatValue(want), code, diagnostic)
	}
	if hasErr {
		if code, _ := state.api.LastError(); code != formatValue(wantErr) {
			return r.assertf("%s last error = %s, want %s", step.Kind, code, formatValue(wantErr))
		}
	}
	return nil
}
