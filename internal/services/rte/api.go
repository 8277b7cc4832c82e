package rte

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/datamodel"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/listener"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
	"github.com/louisbranch/scormrte/internal/services/rte/logsink"
)

const (
	resultTrue  = "true"
	resultFalse = "false"
)

// API is one SCORM run-time instance. It is driven from a single goroutine
// and is not safe for concurrent use.
type API struct {
	id        string
	version   scorm.Version
	table     *errcode.Table
	machine   *lifecycle.Machine
	model     *datamodel.Model
	bus       *listener.Bus
	sink      logsink.Sink
	observers []Observer
	onCommit  CommitFunc
	lastError errcode.Kind
	now       func() time.Time
}

// New builds an API in the NotInitialized state with schema defaults.
func New(opts Options) (*API, error) {
	opts = opts.withDefaults()
	if !opts.Version.Valid() {
		return nil, fmt.Errorf("unsupported scorm version %q", opts.Version)
	}
	model, err := datamodel.New(opts.Version, datamodel.Options{Unimplemented: opts.Unimplemented})
	if err != nil {
		return nil, fmt.Errorf("build data model: %w", err)
	}
	table := errcode.TableFor(opts.Version)
	if opts.Locale != errcode.BaseLocale {
		table = errcode.DefaultCatalog().Table(opts.Version, opts.Locale)
	}
	return &API{
		id:        uuid.NewString(),
		version:   opts.Version,
		table:     table,
		machine:   lifecycle.NewMachine(),
		model:     model,
		bus:       listener.New(),
		sink:      opts.Sink,
		observers: append([]Observer(nil), opts.Observers...),
		onCommit:  opts.OnCommit,
		lastError: errcode.NoError,
		now:       time.Now,
	}, nil
}

// ID returns the instance identifier used in logs and telemetry.
func (a *API) ID() string { return a.id }

// Version returns the data model version.
func (a *API) Version() scorm.Version { return a.version }

// State returns the lifecycle state.
func (a *API) State() lifecycle.State { return a.machine.State() }

// LastErrorKind returns the kind held in the last-error register.
func (a *API) LastErrorKind() errcode.Kind { return a.lastError }

// LastError returns the last-error code and its diagnostic without going
// through GetLastError, so no listener or observer sees the read.
func (a *API) LastError() (code, diagnostic string) {
	code = strconv.Itoa(a.table.Code(a.lastError))
	return code, a.table.Diagnostic(code)
}

// Initialize starts the content session.
func (a *API) Initialize() string {
	return a.run(lifecycle.Initialize, "", "", resultFalse, func() (string, error) {
		return resultTrue, nil
	})
}

// Terminate ends the content session. No verb but the informational ones
// succeeds afterwards.
func (a *API) Terminate() string {
	return a.run(lifecycle.Terminate, "", "", resultFalse, func() (string, error) {
		return resultTrue, nil
	})
}

// GetValue reads element. An empty element returns "" without an error.
func (a *API) GetValue(element string) string {
	if element == "" {
		return a.tolerateEmpty(lifecycle.GetValue, "")
	}
	return a.run(lifecycle.GetValue, element, "", "", func() (string, error) {
		return a.model.Get(element, datamodel.ContentMode)
	})
}

// SetValue writes value to element. An empty element returns "false"
// without an error.
func (a *API) SetValue(element, value string) string {
	if element == "" {
		return a.tolerateEmpty(lifecycle.SetValue, resultFalse)
	}
	return a.run(lifecycle.SetValue, element, value, resultFalse, func() (string, error) {
		if err := a.model.Set(element, value, a.machine.State()); err != nil {
			return resultFalse, err
		}
		return resultTrue, nil
	})
}

// Commit hands the current snapshot to the commit collaborator, if any.
func (a *API) Commit() string {
	return a.run(lifecycle.Commit, "", "", resultFalse, func() (string, error) {
		if a.onCommit != nil {
			if err := a.onCommit(a.model.Snapshot()); err != nil {
				return resultFalse, errcode.New(errcode.GeneralCommitFailure, err.Error())
			}
		}
		return resultTrue, nil
	})
}

// GetLastError returns the numeric code of the last error.
func (a *API) GetLastError() string {
	result := strconv.Itoa(a.table.Code(a.lastError))
	a.inform(lifecycle.GetLastError, "", result)
	return result
}

// GetErrorString returns the short message for code, or "" for an empty code.
func (a *API) GetErrorString(code string) string {
	result := a.table.ErrorString(code)
	a.inform(lifecycle.GetErrorString, code, result)
	return result
}

// GetDiagnostic returns the detailed message for code, or "" for an empty code.
func (a *API) GetDiagnostic(code string) string {
	result := a.table.Diagnostic(code)
	a.inform(lifecycle.GetDiagnostic, code, result)
	return result
}

// Invoke calls a verb by name; SCORM 1.2 LMS* names are accepted. Missing
// arguments are passed as "".
func (a *API) Invoke(name string, args ...string) (string, error) {
	verb, ok := lifecycle.ParseVerb(name)
	if !ok {
		return "", fmt.Errorf("unknown verb %q", name)
	}
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	switch verb {
	case lifecycle.Initialize:
		return a.Initialize(), nil
	case lifecycle.Terminate:
		return a.Terminate(), nil
	case lifecycle.GetValue:
		return a.GetValue(arg(0)), nil
	case lifecycle.SetValue:
		return a.SetValue(arg(0), arg(1)), nil
	case lifecycle.Commit:
		return a.Commit(), nil
	case lifecycle.GetLastError:
		return a.GetLastError(), nil
	case lifecycle.GetErrorString:
		return a.GetErrorString(arg(0)), nil
	default:
		return a.GetDiagnostic(arg(0)), nil
	}
}

// On registers fn for the space separated verb or verb.element tokens in
// spec.
func (a *API) On(spec string, fn listener.Listener) error {
	return a.bus.On(spec, fn)
}

// Snapshot returns a plain copy of the data model, write-only values
// included.
func (a *API) Snapshot() *datamodel.Tree {
	return a.model.Snapshot()
}

// Reset returns the instance to NotInitialized with a fresh model, a clear
// last-error register and no listeners.
func (a *API) Reset() {
	prior := a.machine.State()
	a.machine.Reset()
	a.lastError = errcode.NoError
	a.bus.Clear()
	a.model.Reset()
	a.sink.Log("Reset", "", "instance reset", logsink.LevelDebug)
	for _, o := range a.observers {
		if ro, ok := o.(ResetObserver); ok {
			ro.ObserveReset(a.id, a.version, prior)
		}
	}
}

// run executes a lifecycle-gated verb.
func (a *API) run(verb lifecycle.Verb, element, value, failure string, body func() (string, error)) string {
	started := a.now()
	a.lastError = errcode.NoError

	var (
		result string
		err    error
	)
	if kind := a.machine.Check(verb); kind != errcode.NoError {
		result, err = failure, errcode.Newf(kind, element, "%s is not allowed while %s", verb.Name(a.version), a.machine.State())
	} else {
		result, err = body()
		if err != nil {
			result = failure
		} else {
			a.machine.Advance(verb)
		}
	}
	if err != nil {
		a.raise(verb, element, err)
	}

	eventValue := value
	if verb == lifecycle.GetValue {
		eventValue = result
	}
	a.bus.Notify(listener.Event{Verb: verb, Element: element, Value: eventValue})
	a.sink.Log(verb.Name(a.version), element, "returned: "+result, logsink.LevelInfo)
	a.observe(verb, element, value, result, a.lastError, started)
	return result
}

// tolerateEmpty serves Get/Set with an empty element: no error is raised
// and the register is left as is.
func (a *API) tolerateEmpty(verb lifecycle.Verb, result string) string {
	started := a.now()
	a.bus.Notify(listener.Event{Verb: verb})
	a.sink.Log(verb.Name(a.version), "", "empty element, returned: "+result, logsink.LevelInfo)
	a.observe(verb, "", "", result, errcode.NoError, started)
	return result
}

// inform serves the informational verbs, which never raise.
func (a *API) inform(verb lifecycle.Verb, code, result string) {
	started := a.now()
	a.bus.Notify(listener.Event{Verb: verb, Element: code, Value: result})
	a.sink.Log(verb.Name(a.version), "", "returned: "+result, logsink.LevelInfo)
	a.observe(verb, code, "", result, errcode.NoError, started)
}

func (a *API) raise(verb lifecycle.Verb, element string, err error) {
	kind := errcode.KindOf(err)
	var rteErr *errcode.Error
	message := err.Error()
	if errors.As(err, &rteErr) {
		message = rteErr.Message
	}
	a.lastError = kind
	code := a.table.Code(kind)
	a.sink.Log(verb.Name(a.version), element, fmt.Sprintf("%s (%d: %s)", message, code, a.table.ErrorString(strconv.Itoa(code))), logsink.LevelError)
}

func (a *API) observe(verb lifecycle.Verb, element, value, result string, kind errcode.Kind, started time.Time) {
	if len(a.observers) == 0 {
		return
	}
	call := Call{
		Instance: a.id,
		Version:  a.version,
		Verb:     verb,
		Element:  element,
		Value:    value,
		Result:   result,
		Kind:     kind,
		Code:     a.table.Code(kind),
		Started:  started,
		Duration: a.now().Sub(started),
	}
	for _, o := range a.observers {
		o.ObserveCall(call)
	}
}
