package rte

import (
	"errors"
	"testing"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/datamodel"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/listener"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
	"github.com/louisbranch/scormrte/internal/services/rte/logsink"
)

func newAPI(t *testing.T, v scorm.Version) (*API, *logsink.Recorder) {
	t.Helper()
	rec := &logsink.Recorder{}
	api, err := New(Options{Version: v, Sink: rec})
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	return api, rec
}

func assertLastError(t *testing.T, api *API, want string) {
	t.Helper()
	if got := api.GetLastError(); got != want {
		t.Fatalf("GetLastError() = %q, want %q", got, want)
	}
}

func TestVerbsBeforeInitialize(t *testing.T) {
	tests := []struct {
		version scorm.Version
		call    func(*API) string
		result  string
		code    string
	}{
		{version: scorm.Version12, call: (*API).Terminate, result: "false", code: "301"},
		{version: scorm.Version12, call: func(a *API) string { return a.GetValue("cmi.core.lesson_status") }, result: "", code: "301"},
		{version: scorm.Version12, call: func(a *API) string { return a.SetValue("cmi.core.lesson_status", "passed") }, result: "false", code: "301"},
		{version: scorm.Version12, call: (*API).Commit, result: "false", code: "301"},
		{version: scorm.Version2004, call: (*API).Terminate, result: "false", code: "112"},
		{version: scorm.Version2004, call: func(a *API) string { return a.GetValue("cmi.location") }, result: "", code: "122"},
		{version: scorm.Version2004, call: func(a *API) string { return a.SetValue("cmi.location", "p1") }, result: "false", code: "132"},
		{version: scorm.Version2004, call: (*API).Commit, result: "false", code: "142"},
	}
	for _, tc := range tests {
		api, _ := newAPI(t, tc.version)
		if got := tc.call(api); got != tc.result {
			t.Fatalf("%s: result = %q, want %q", tc.version, got, tc.result)
		}
		assertLastError(t, api, tc.code)
		if api.State() != lifecycle.NotInitialized {
			t.Fatalf("state = %s, want %s", api.State(), lifecycle.NotInitialized)
		}
	}
}

func TestInitializeTwice(t *testing.T) {
	api, _ := newAPI(t, scorm.Version2004)
	if got := api.Initialize(); got != "true" {
		t.Fatalf("Initialize() = %q, want true", got)
	}
	assertLastError(t, api, "0")
	if got := api.Initialize(); got != "false" {
		t.Fatalf("second Initialize() = %q, want false", got)
	}
	assertLastError(t, api, "103")
	if api.State() != lifecycle.Initialized {
		t.Fatalf("state = %s, want %s", api.State(), lifecycle.Initialized)
	}
}

func TestInitializeAfterTerminate(t *testing.T) {
	api, _ := newAPI(t, scorm.Version2004)
	api.Initialize()
	if got := api.Terminate(); got != "true" {
		t.Fatalf("Terminate() = %q, want true", got)
	}
	if got := api.Initialize(); got != "false" {
		t.Fatalf("Initialize() = %q, want false", got)
	}
	assertLastError(t, api, "104")
	if got := api.GetValue("cmi.location"); got != "" {
		t.Fatalf("GetValue after terminate = %q", got)
	}
	assertLastError(t, api, "123")
	if api.State() != lifecycle.Terminated {
		t.Fatalf("state = %s, want %s", api.State(), lifecycle.Terminated)
	}
}

func TestInitializeClearsLastError(t *testing.T) {
	api, _ := newAPI(t, scorm.Version12)
	api.Commit()
	assertLastError(t, api, "301")
	api.Initialize()
	assertLastError(t, api, "0")
}

func TestSetThenGet(t *testing.T) {
	api, _ := newAPI(t, scorm.Version12)
	api.Initialize()
	if got := api.SetValue("cmi.core.lesson_status", "completed"); got != "true" {
		t.Fatalf("SetValue() = %q, want true", got)
	}
	if got := api.GetValue("cmi.core.lesson_status"); got != "completed" {
		t.Fatalf("GetValue() = %q, want completed", got)
	}
	assertLastError(t, api, "0")
}

func TestObjectivesCount(t *testing.T) {
	api, _ := newAPI(t, scorm.Version12)
	api.Initialize()
	if got := api.GetValue("cmi.objectives._count"); got != "0" {
		t.Fatalf("_count = %q, want 0", got)
	}
	if got := api.SetValue("cmi.objectives.0.id", "obj1"); got != "true" {
		t.Fatalf("SetValue() = %q, want true", got)
	}
	if got := api.GetValue("cmi.objectives._count"); got != "1" {
		t.Fatalf("_count = %q, want 1", got)
	}
	if got := api.GetValue("cmi.objectives.0.id"); got != "obj1" {
		t.Fatalf("id = %q, want obj1", got)
	}
}

func TestSetCountIsKeywordError(t *testing.T) {
	api, _ := newAPI(t, scorm.Version12)
	api.Initialize()
	if got := api.SetValue("cmi.objectives._count", "5"); got != "false" {
		t.Fatalf("SetValue() = %q, want false", got)
	}
	assertLastError(t, api, "402")
	if got := api.GetValue("cmi.objectives._count"); got != "0" {
		t.Fatalf("_count = %q, want 0", got)
	}
}

func TestDerivedCompletionStatusThroughAPI(t *testing.T) {
	api, _ := newAPI(t, scorm.Version2004)
	if err := api.Load(map[string]any{"cmi": map[string]any{"completion_threshold": "0.5"}}); err != nil {
		t.Fatalf("load: %v", err)
	}
	api.Initialize()
	if got := api.GetValue("cmi.completion_status"); got != "unknown" {
		t.Fatalf("completion_status = %q, want unknown", got)
	}
	api.SetValue("cmi.progress_measure", "0.5")
	if got := api.GetValue("cmi.completion_status"); got != "completed" {
		t.Fatalf("completion_status = %q, want completed", got)
	}
	api.SetValue("cmi.progress_measure", "0.4")
	if got := api.GetValue("cmi.completion_status"); got != "incomplete" {
		t.Fatalf("completion_status = %q, want incomplete", got)
	}
}

func TestElementListenerFiresOnce(t *testing.T) {
	api, _ := newAPI(t, scorm.Version12)
	var events []listener.Event
	if err := api.On("SetValue.cmi.core.lesson_status", func(ev listener.Event) { events = append(events, ev) }); err != nil {
		t.Fatalf("On: %v", err)
	}
	api.Initialize()
	api.SetValue("cmi.core.lesson_location", "page-2")
	api.SetValue("cmi.core.lesson_status", "incomplete")
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Value != "incomplete" {
		t.Fatalf("event value = %q, want incomplete", events[0].Value)
	}
}

func TestListenersNotifiedOnFailure(t *testing.T) {
	api, _ := newAPI(t, scorm.Version12)
	calls := 0
	if err := api.On("LMSCommit", func(listener.Event) { calls++ }); err != nil {
		t.Fatalf("On: %v", err)
	}
	api.Commit()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestEmptyElementNeverRaises(t *testing.T) {
	api, _ := newAPI(t, scorm.Version2004)
	if got := api.GetValue(""); got != "" {
		t.Fatalf("GetValue(\"\") = %q", got)
	}
	assertLastError(t, api, "0")
	api.Initialize()
	if got := api.SetValue("", "x"); got != "false" {
		t.Fatalf("SetValue(\"\") = %q, want false", got)
	}
	assertLastError(t, api, "0")
}

func TestErrorsLogOnceAtErrorSeverity(t *testing.T) {
	api, rec := newAPI(t, scorm.Version12)
	api.Initialize()
	api.GetValue("cmi.core.lesson_status")
	if got := rec.Count(logsink.LevelError); got != 0 {
		t.Fatalf("error lines = %d, want 0", got)
	}
	before := len(rec.Entries())
	api.SetValue("cmi.core.student_id", "x")
	if got := rec.Count(logsink.LevelError); got != 1 {
		t.Fatalf("error lines = %d, want 1", got)
	}
	entries := rec.Entries()[before:]
	if len(entries) != 2 {
		t.Fatalf("entries for failed call = %d, want 2", len(entries))
	}
	if entries[0].Verb != "LMSSetValue" || entries[0].Element != "cmi.core.student_id" {
		t.Fatalf("error entry = %+v", entries[0])
	}
	assertLastError(t, api, "403")
}

func TestLastErrorSkipsListeners(t *testing.T) {
	api, _ := newAPI(t, scorm.Version2004)
	calls := 0
	for _, spec := range []string{"GetLastError", "GetDiagnostic"} {
		if err := api.On(spec, func(listener.Event) { calls++ }); err != nil {
			t.Fatalf("On(%s): %v", spec, err)
		}
	}
	api.GetValue("cmi.location")
	code, diagnostic := api.LastError()
	if code != "122" {
		t.Fatalf("LastError() code = %q, want 122", code)
	}
	if diagnostic == "" {
		t.Fatal("expected diagnostic text")
	}
	if calls != 0 {
		t.Fatalf("listener calls = %d, want 0", calls)
	}
}

func TestErrorStringAndDiagnostic(t *testing.T) {
	api, _ := newAPI(t, scorm.Version2004)
	if got := api.GetErrorString("401"); got != "Undefined Data Model Element" {
		t.Fatalf("GetErrorString(401) = %q", got)
	}
	if got := api.GetDiagnostic(""); got != "" {
		t.Fatalf("GetDiagnostic(\"\") = %q, want empty", got)
	}
	if got := api.GetErrorString(""); got != "" {
		t.Fatalf("GetErrorString(\"\") = %q, want empty", got)
	}
	api.GetValue("cmi.location")
	code := api.GetLastError()
	if got := api.GetErrorString(code); got != "Retrieve Data Before Initialization" {
		t.Fatalf("GetErrorString(%s) = %q", code, got)
	}
	// Informational verbs leave the register alone.
	assertLastError(t, api, "122")
}

func TestLocalizedMessages(t *testing.T) {
	api, err := New(Options{Version: scorm.Version12, Locale: "pt-BR"})
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	if got := api.GetErrorString("301"); got != "Não inicializado" {
		t.Fatalf("GetErrorString(301) = %q", got)
	}
}

func TestUnknownVersusNotImplemented(t *testing.T) {
	api, err := New(Options{Version: scorm.Version12, Unimplemented: []string{"cmi.student_preference"}})
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	api.Initialize()
	api.SetValue("cmi.student_preference.audio", "10")
	assertLastError(t, api, "401")
	api.SetValue("cmi.core.unknown_thing", "10")
	assertLastError(t, api, "201")
}

func TestCommitHook(t *testing.T) {
	var committed *datamodel.Tree
	api, err := New(Options{Version: scorm.Version2004, OnCommit: func(tree *datamodel.Tree) error {
		committed = tree
		return nil
	}})
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	api.Initialize()
	api.SetValue("cmi.location", "slide-3")
	if got := api.Commit(); got != "true" {
		t.Fatalf("Commit() = %q, want true", got)
	}
	if v, _ := committed.Lookup("cmi.location"); v != "slide-3" {
		t.Fatalf("committed location = %v", v)
	}

	failing, err := New(Options{Version: scorm.Version2004, OnCommit: func(*datamodel.Tree) error {
		return errors.New("disk full")
	}})
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	failing.Initialize()
	if got := failing.Commit(); got != "false" {
		t.Fatalf("Commit() = %q, want false", got)
	}
	assertLastError(t, failing, "391")
}

func TestReset(t *testing.T) {
	api, _ := newAPI(t, scorm.Version12)
	calls := 0
	_ = api.On("Initialize", func(listener.Event) { calls++ })
	api.Initialize()
	api.SetValue("cmi.objectives.0.id", "obj1")
	api.Terminate()
	api.Commit()

	api.Reset()
	if api.State() != lifecycle.NotInitialized {
		t.Fatalf("state = %s, want %s", api.State(), lifecycle.NotInitialized)
	}
	if api.LastErrorKind() != errcode.NoError {
		t.Fatalf("last error = %s, want %s", api.LastErrorKind(), errcode.NoError)
	}
	api.Initialize()
	if calls != 1 {
		t.Fatalf("listener calls = %d, want 1 (cleared on reset)", calls)
	}
	if got := api.GetValue("cmi.objectives._count"); got != "0" {
		t.Fatalf("_count = %q, want 0", got)
	}
}

func TestInvoke(t *testing.T) {
	api, _ := newAPI(t, scorm.Version12)
	steps := []struct {
		name string
		args []string
		want string
	}{
		{name: "LMSInitialize", args: []string{""}, want: "true"},
		{name: "LMSSetValue", args: []string{"cmi.core.lesson_location", "p3"}, want: "true"},
		{name: "LMSGetValue", args: []string{"cmi.core.lesson_location"}, want: "p3"},
		{name: "LMSGetLastError", want: "0"},
		{name: "LMSGetErrorString", args: []string{"404"}, want: "Element is write only"},
		{name: "LMSFinish", args: []string{""}, want: "true"},
	}
	for _, step := range steps {
		got, err := api.Invoke(step.name, step.args...)
		if err != nil {
			t.Fatalf("Invoke(%s): %v", step.name, err)
		}
		if got != step.want {
			t.Fatalf("Invoke(%s) = %q, want %q", step.name, got, step.want)
		}
	}
	if _, err := api.Invoke("LMSDance"); err == nil {
		t.Fatal("expected error for unknown verb")
	}
}

func TestObservers(t *testing.T) {
	var calls []Call
	api, err := New(Options{Version: scorm.Version2004, Observers: []Observer{ObserverFunc(func(c Call) {
		calls = append(calls, c)
	})}})
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	api.GetValue("cmi.location")
	api.GetLastError()
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if !calls[0].Failed() || calls[0].Code != 122 || calls[0].Instance != api.ID() {
		t.Fatalf("first call = %+v", calls[0])
	}
	if calls[1].Failed() || calls[1].Result != "122" {
		t.Fatalf("second call = %+v", calls[1])
	}
}

func TestNewRejectsUnknownVersion(t *testing.T) {
	if _, err := New(Options{Version: "1.3"}); err == nil {
		t.Fatal("expected error for unknown version")
	}
}
