package datamodel

import (
	"errors"
	"testing"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
)

func newModel(t *testing.T, v scorm.Version) *Model {
	t.Helper()
	m, err := New(v, Options{})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func mustGet(t *testing.T, m *Model, path string) string {
	t.Helper()
	got, err := m.Get(path, ContentMode)
	if err != nil {
		t.Fatalf("Get(%q): %v", path, err)
	}
	return got
}

func mustSet(t *testing.T, m *Model, path, value string) {
	t.Helper()
	if err := m.Set(path, value, lifecycle.Initialized); err != nil {
		t.Fatalf("Set(%q, %q): %v", path, value, err)
	}
}

func assertKind(t *testing.T, err error, want errcode.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := errcode.KindOf(err); got != want {
		t.Fatalf("error kind = %s, want %s (%v)", got, want, err)
	}
}

func TestModelDefaults(t *testing.T) {
	m12 := newModel(t, scorm.Version12)
	tests := map[string]string{
		"cmi.core.lesson_mode":     "normal",
		"cmi.core.score.max":       "100",
		"cmi.core.score._children": "raw,min,max",
		"cmi.objectives._count":    "0",
		"cmi.core.lesson_status":   "",
	}
	for path, want := range tests {
		if got := mustGet(t, m12, path); got != want {
			t.Fatalf("1.2 Get(%q) = %q, want %q", path, got, want)
		}
	}

	m04 := newModel(t, scorm.Version2004)
	tests = map[string]string{
		"cmi._version":                       "1.0",
		"cmi.completion_status":              "unknown",
		"cmi.credit":                         "credit",
		"cmi.time_limit_action":              "continue,no message",
		"cmi.total_time":                     "0",
		"cmi.learner_preference.audio_level": "1",
		"adl.nav.request":                    "_none_",
		"adl.nav.request_valid.continue":     "unknown",
	}
	for path, want := range tests {
		if got := mustGet(t, m04, path); got != want {
			t.Fatalf("2004 Get(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestEmptyPathIsTolerated(t *testing.T) {
	m := newModel(t, scorm.Version12)
	if got, err := m.Get("", ContentMode); err != nil || got != "" {
		t.Fatalf("Get(\"\") = %q, %v, want empty without error", got, err)
	}
	if err := m.Set("", "x", lifecycle.Initialized); err != nil {
		t.Fatalf("Set(\"\") error: %v", err)
	}
}

func TestCollectionAppendOnWrite(t *testing.T) {
	m := newModel(t, scorm.Version12)
	mustSet(t, m, "cmi.objectives.0.id", "obj1")
	if got := mustGet(t, m, "cmi.objectives._count"); got != "1" {
		t.Fatalf("_count = %q, want 1", got)
	}
	if got := mustGet(t, m, "cmi.objectives.0.id"); got != "obj1" {
		t.Fatalf("objectives.0.id = %q, want obj1", got)
	}
	mustSet(t, m, "cmi.objectives.0.score.raw", "80")
	if got := mustGet(t, m, "cmi.objectives._count"); got != "1" {
		t.Fatalf("_count after rewrite = %q, want 1", got)
	}
	if got := mustGet(t, m, "cmi.objectives.0.score._children"); got != "raw,min,max" {
		t.Fatalf("score._children = %q", got)
	}
}

func TestCollectionIndexErrors(t *testing.T) {
	m := newModel(t, scorm.Version12)
	assertKind(t, m.Set("cmi.objectives.1.id", "gap", lifecycle.Initialized), errcode.GeneralSetFailure)
	if got := mustGet(t, m, "cmi.objectives._count"); got != "0" {
		t.Fatalf("_count after failed set = %q, want 0", got)
	}
	_, err := m.Get("cmi.objectives.0.id", ContentMode)
	assertKind(t, err, errcode.GeneralGetFailure)
	assertKind(t, m.Set("cmi.objectives.first.id", "x", lifecycle.Initialized), errcode.UnknownElement)
}

func TestKeywordsAreReadOnly(t *testing.T) {
	m := newModel(t, scorm.Version12)
	assertKind(t, m.Set("cmi.objectives._count", "5", lifecycle.Initialized), errcode.ElementIsKeyword)
	assertKind(t, m.Set("cmi.core._children", "x", lifecycle.Initialized), errcode.ElementIsKeyword)
	if got := mustGet(t, m, "cmi.objectives._count"); got != "0" {
		t.Fatalf("_count = %q, want 0", got)
	}
}

func TestChildrenAndCountErrors(t *testing.T) {
	m := newModel(t, scorm.Version12)
	_, err := m.Get("cmi.core.lesson_status._children", ContentMode)
	assertKind(t, err, errcode.ElementCannotHaveChildren)
	_, err = m.Get("cmi.core._count", ContentMode)
	assertKind(t, err, errcode.ElementCannotHaveCount)
	_, err = m.Get("cmi.core.student_id._count", ContentMode)
	assertKind(t, err, errcode.ElementCannotHaveCount)

	mustSet(t, m, "cmi.interactions.0.id", "q1")
	_, err = m.Get("cmi.interactions.0.correct_responses._children", ContentMode)
	assertKind(t, err, errcode.ElementCannotHaveChildren)
	if got := mustGet(t, m, "cmi.interactions.0.correct_responses._count"); got != "0" {
		t.Fatalf("correct_responses._count = %q, want 0", got)
	}
}

func TestUnknownElement(t *testing.T) {
	m := newModel(t, scorm.Version12)
	_, err := m.Get("cmi.core.favourite_colour", ContentMode)
	assertKind(t, err, errcode.UnknownElement)
	assertKind(t, m.Set("cmi.bogus", "x", lifecycle.Initialized), errcode.UnknownElement)
	_, err = m.Get("adl.nav.request", ContentMode)
	assertKind(t, err, errcode.UnknownElement)
}

func TestAccessPolicy(t *testing.T) {
	m := newModel(t, scorm.Version12)

	if err := m.Set("cmi.core.student_id", "learner-1", lifecycle.NotInitialized); err != nil {
		t.Fatalf("write-before-init while not initialized: %v", err)
	}
	assertKind(t, m.Set("cmi.core.student_id", "learner-2", lifecycle.Initialized), errcode.ReadOnlyElement)
	if got := mustGet(t, m, "cmi.core.student_id"); got != "learner-1" {
		t.Fatalf("student_id = %q, want learner-1", got)
	}

	mustSet(t, m, "cmi.core.session_time", "00:10:00")
	_, err := m.Get("cmi.core.session_time", ContentMode)
	assertKind(t, err, errcode.WriteOnlyElement)
	got, err := m.Get("cmi.core.session_time", SerializeMode)
	if err != nil || got != "00:10:00" {
		t.Fatalf("serialize read = %q, %v, want 00:10:00", got, err)
	}

	m04 := newModel(t, scorm.Version2004)
	assertKind(t, m04.Set("cmi._version", "2.0", lifecycle.NotInitialized), errcode.ReadOnlyElement)
}

func TestFormatValidation(t *testing.T) {
	m := newModel(t, scorm.Version12)
	assertKind(t, m.Set("cmi.core.lesson_status", "done", lifecycle.Initialized), errcode.TypeMismatch)
	assertKind(t, m.Set("cmi.core.score.raw", "101", lifecycle.Initialized), errcode.ValueOutOfRange)
	assertKind(t, m.Set("cmi.core.score.raw", "abc", lifecycle.Initialized), errcode.TypeMismatch)
	mustSet(t, m, "cmi.core.score.raw", "")
	mustSet(t, m, "cmi.core.session_time", "0001:30:05.25")
	assertKind(t, m.Set("cmi.core.session_time", "PT1H", lifecycle.Initialized), errcode.TypeMismatch)

	m04 := newModel(t, scorm.Version2004)
	mustSet(t, m04, "cmi.session_time", "PT1H30M5.5S")
	assertKind(t, m04.Set("cmi.session_time", "PT", lifecycle.Initialized), errcode.TypeMismatch)
	assertKind(t, m04.Set("cmi.score.scaled", "1.5", lifecycle.Initialized), errcode.ValueOutOfRange)
	assertKind(t, m04.Set("cmi.learner_preference.language", "not a tag", lifecycle.Initialized), errcode.TypeMismatch)
	mustSet(t, m04, "cmi.learner_preference.language", "pt-BR")
	mustSet(t, m04, "adl.nav.request", "{target=intro}choice")
	assertKind(t, m04.Set("adl.nav.request", "jump", lifecycle.Initialized), errcode.TypeMismatch)
}

func TestDerivedCompletionStatus(t *testing.T) {
	m := newModel(t, scorm.Version2004)
	mustSet(t, m, "cmi.completion_status", "incomplete")
	if got := mustGet(t, m, "cmi.completion_status"); got != "incomplete" {
		t.Fatalf("completion_status without threshold = %q, want incomplete", got)
	}

	if err := m.Set("cmi.completion_threshold", "0.5", lifecycle.NotInitialized); err != nil {
		t.Fatalf("set threshold: %v", err)
	}
	if got := mustGet(t, m, "cmi.completion_status"); got != "unknown" {
		t.Fatalf("completion_status without measure = %q, want unknown", got)
	}
	mustSet(t, m, "cmi.progress_measure", "0.5")
	if got := mustGet(t, m, "cmi.completion_status"); got != "completed" {
		t.Fatalf("completion_status at threshold = %q, want completed", got)
	}
	mustSet(t, m, "cmi.progress_measure", "0.4")
	if got := mustGet(t, m, "cmi.completion_status"); got != "incomplete" {
		t.Fatalf("completion_status below threshold = %q, want incomplete", got)
	}
}

func TestDerivedSuccessStatus(t *testing.T) {
	m := newModel(t, scorm.Version2004)
	if err := m.Set("cmi.scaled_passing_score", "0.7", lifecycle.NotInitialized); err != nil {
		t.Fatalf("set passing score: %v", err)
	}
	if got := mustGet(t, m, "cmi.success_status"); got != "unknown" {
		t.Fatalf("success_status without score = %q, want unknown", got)
	}
	mustSet(t, m, "cmi.score.scaled", "0.9")
	if got := mustGet(t, m, "cmi.success_status"); got != "passed" {
		t.Fatalf("success_status = %q, want passed", got)
	}
	mustSet(t, m, "cmi.score.scaled", "-0.2")
	if got := mustGet(t, m, "cmi.success_status"); got != "failed" {
		t.Fatalf("success_status = %q, want failed", got)
	}
}

func TestDependencies(t *testing.T) {
	m := newModel(t, scorm.Version2004)
	assertKind(t, m.Set("cmi.interactions.0.type", "choice", lifecycle.Initialized), errcode.DependencyNotEstablished)
	if got := mustGet(t, m, "cmi.interactions._count"); got != "0" {
		t.Fatalf("_count after failed dependency = %q, want 0", got)
	}

	mustSet(t, m, "cmi.interactions.0.id", "q1")
	assertKind(t, m.Set("cmi.interactions.0.learner_response", "a", lifecycle.Initialized), errcode.DependencyNotEstablished)
	assertKind(t, m.Set("cmi.interactions.0.correct_responses.0.pattern", "a", lifecycle.Initialized), errcode.DependencyNotEstablished)
	mustSet(t, m, "cmi.interactions.0.type", "choice")
	mustSet(t, m, "cmi.interactions.0.learner_response", "a")
	mustSet(t, m, "cmi.interactions.0.correct_responses.0.pattern", "a")
	if got := mustGet(t, m, "cmi.interactions.0.correct_responses._count"); got != "1" {
		t.Fatalf("correct_responses._count = %q, want 1", got)
	}

	assertKind(t, m.Set("cmi.objectives.0.success_status", "passed", lifecycle.Initialized), errcode.DependencyNotEstablished)
}

func TestNestedCreationIsAtomic(t *testing.T) {
	m := newModel(t, scorm.Version12)
	assertKind(t, m.Set("cmi.interactions.0.objectives.0.id", "has space", lifecycle.Initialized), errcode.TypeMismatch)
	if got := mustGet(t, m, "cmi.interactions._count"); got != "0" {
		t.Fatalf("interactions._count = %q, want 0", got)
	}

	mustSet(t, m, "cmi.interactions.0.objectives.0.id", "obj1")
	if got := mustGet(t, m, "cmi.interactions._count"); got != "1" {
		t.Fatalf("interactions._count = %q, want 1", got)
	}
	if got := mustGet(t, m, "cmi.interactions.0.objectives._count"); got != "1" {
		t.Fatalf("interactions.0.objectives._count = %q, want 1", got)
	}
}

func TestTargetLookups(t *testing.T) {
	m := newModel(t, scorm.Version2004)
	if got := mustGet(t, m, "adl.nav.request_valid.choice.{target=com.example.sco}"); got != "unknown" {
		t.Fatalf("choice lookup = %q, want unknown", got)
	}
	_, err := m.Get("adl.nav.request_valid.jump.{target=}", ContentMode)
	assertKind(t, err, errcode.UnknownElement)
	assertKind(t, m.Set("adl.nav.request_valid.choice.{target=a}", "true", lifecycle.Initialized), errcode.ReadOnlyElement)
}

func TestUnimplementedGroups(t *testing.T) {
	m, err := New(scorm.Version12, Options{Unimplemented: []string{"cmi.interactions"}})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	assertKind(t, m.Set("cmi.interactions.0.id", "q1", lifecycle.Initialized), errcode.NotImplementedElement)
	_, err = m.Get("cmi.interactions._count", ContentMode)
	assertKind(t, err, errcode.NotImplementedElement)

	if _, err := New(scorm.Version12, Options{Unimplemented: []string{"cmi.core"}}); err == nil {
		t.Fatal("expected error for non-optional group")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	m := newModel(t, scorm.Version12)
	mustSet(t, m, "cmi.core.lesson_status", "completed")
	mustSet(t, m, "cmi.objectives.0.id", "obj1")
	m.Reset()
	if got := mustGet(t, m, "cmi.core.lesson_status"); got != "" {
		t.Fatalf("lesson_status = %q, want empty", got)
	}
	if got := mustGet(t, m, "cmi.objectives._count"); got != "0" {
		t.Fatalf("_count = %q, want 0", got)
	}
}

func TestErrorsCarryElement(t *testing.T) {
	m := newModel(t, scorm.Version12)
	err := m.Set("cmi.core.lesson_status", "done", lifecycle.Initialized)
	var rteErr *errcode.Error
	if !errors.As(err, &rteErr) {
		t.Fatalf("expected *errcode.Error, got %T", err)
	}
	if rteErr.Element != "cmi.core.lesson_status" {
		t.Fatalf("element = %q", rteErr.Element)
	}
}
