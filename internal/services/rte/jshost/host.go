// Package jshost runs SCORM content scripts against an RTE instance.
//
// The host installs the run-time object content discovers on the page:
// "API" with the LMS* functions for SCORM 1.2 or "API_1484_11" for SCORM
// 2004. Calls are forwarded to whichever instance the handle points at when
// the call is made.
package jshost

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/louisbranch/scormrte/internal/services/rte"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/listener"
	"github.com/louisbranch/scormrte/internal/services/rte/logsink"
)

// DefaultTimeout bounds a script when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// MaxScriptSize is the largest script the host accepts.
const MaxScriptSize = 1 << 20

const consoleVerb = "console"

// Options configures a Host.
type Options struct {
	// Sink receives console output; defaults to logsink.Discard.
	Sink logsink.Sink
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
}

// Host executes content scripts.
type Host struct {
	handle  *rte.Handle
	sink    logsink.Sink
	timeout time.Duration
}

// Result reports what a script did.
type Result struct {
	// Calls counts lifecycle and data model calls made by the script.
	Calls int
	// Queries counts GetLastError, GetErrorString and GetDiagnostic calls.
	Queries int
	// Console holds console.log lines in order.
	Console []string
}

// New builds a host over handle.
func New(handle *rte.Handle, opts Options) (*Host, error) {
	if handle == nil || handle.API() == nil {
		return nil, errors.New("rte handle is required")
	}
	if opts.Sink == nil {
		opts.Sink = logsink.Discard{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Host{handle: handle, sink: opts.Sink, timeout: opts.Timeout}, nil
}

// Run executes script. name labels errors.
func (h *Host) Run(ctx context.Context, name, script string) (Result, error) {
	if len(script) > MaxScriptSize {
		return Result{}, fmt.Errorf("script %s exceeds maximum size of %d bytes", name, MaxScriptSize)
	}

	vm := goja.New()
	result := &Result{}

	timeout := h.timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-time.After(timeout):
			vm.Interrupt("execution timeout")
		case <-ctx.Done():
			vm.Interrupt(ctx.Err().Error())
		case <-done:
		}
	}()
	defer close(done)

	if err := h.install(vm, result); err != nil {
		return Result{}, err
	}

	if _, err := vm.RunScript(name, script); err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return *result, fmt.Errorf("script %s interrupted: %w", name, ctxErr)
			}
			return *result, fmt.Errorf("script %s interrupted: %w", name, context.DeadlineExceeded)
		}
		return *result, fmt.Errorf("script %s: %w", name, err)
	}
	return *result, nil
}

func (h *Host) install(vm *goja.Runtime, result *Result) error {
	api := h.handle.API()
	version := api.Version()

	obj := vm.NewObject()
	for _, verb := range lifecycle.Verbs {
		verb := verb
		fn := func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = stringArg(arg)
			}
			out, err := h.handle.API().Invoke(string(verb), args...)
			if err != nil {
				panic(vm.NewGoError(err))
			}
			if verb.Informational() {
				result.Queries++
			} else {
				result.Calls++
			}
			return vm.ToValue(out)
		}
		if err := obj.Set(verb.Name(version), fn); err != nil {
			return fmt.Errorf("install %s: %w", verb.Name(version), err)
		}
	}
	on := func(call goja.FunctionCall) goja.Value {
		spec := stringArg(call.Argument(0))
		fn, ok := goja.AssertFunction(call.Argument(1))
		if !ok {
			panic(vm.NewTypeError("on: listener for %q is not a function", spec))
		}
		err := h.handle.API().On(spec, func(e listener.Event) {
			// A throwing listener unwinds back into the calling content.
			if _, err := fn(goja.Undefined(), vm.ToValue(e.Element), vm.ToValue(e.Value), vm.ToValue(e.Verb.Name(version))); err != nil {
				panic(err)
			}
		})
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	}
	if err := obj.Set("on", on); err != nil {
		return fmt.Errorf("install on: %w", err)
	}

	if err := vm.Set(version.APIName(), obj); err != nil {
		return fmt.Errorf("install %s: %w", version.APIName(), err)
	}
	if err := vm.Set("window", vm.GlobalObject()); err != nil {
		return fmt.Errorf("install window: %w", err)
	}

	console := vm.NewObject()
	logFn := func(level logsink.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			line := strings.Join(parts, " ")
			result.Console = append(result.Console, line)
			h.sink.Log(consoleVerb, "", line, level)
			return goja.Undefined()
		}
	}
	for name, level := range map[string]logsink.Level{
		"debug": logsink.LevelDebug,
		"log":   logsink.LevelInfo,
		"info":  logsink.LevelInfo,
		"warn":  logsink.LevelWarning,
		"error": logsink.LevelError,
	} {
		if err := console.Set(name, logFn(level)); err != nil {
			return fmt.Errorf("install console.%s: %w", name, err)
		}
	}
	return vm.Set("console", console)
}

// stringArg converts a script argument the way a browser coerces it to a
// DOMString, except that undefined and null become "".
func stringArg(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}
