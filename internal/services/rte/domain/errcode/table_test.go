package errcode

import (
	"testing"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
)

func TestTableCodes(t *testing.T) {
	tests := []struct {
		kind Kind
		v12  int
		v04  int
	}{
		{kind: NoError, v12: 0, v04: 0},
		{kind: AlreadyInitialized, v12: 101, v04: 103},
		{kind: AlreadyTerminated, v12: 101, v04: 104},
		{kind: GetBeforeInit, v12: 301, v04: 122},
		{kind: SetAfterTerminate, v12: 101, v04: 133},
		{kind: CommitBeforeInit, v12: 301, v04: 142},
		{kind: UnknownElement, v12: 201, v04: 401},
		{kind: NotImplementedElement, v12: 401, v04: 402},
		{kind: ElementCannotHaveChildren, v12: 202, v04: 301},
		{kind: ElementCannotHaveCount, v12: 203, v04: 301},
		{kind: ElementIsKeyword, v12: 402, v04: 404},
		{kind: ReadOnlyElement, v12: 403, v04: 404},
		{kind: WriteOnlyElement, v12: 404, v04: 405},
		{kind: TypeMismatch, v12: 405, v04: 406},
		{kind: ValueOutOfRange, v12: 405, v04: 407},
		{kind: DependencyNotEstablished, v12: 101, v04: 408},
	}
	t12 := TableFor(scorm.Version12)
	t04 := TableFor(scorm.Version2004)
	for _, tc := range tests {
		if got := t12.Code(tc.kind); got != tc.v12 {
			t.Fatalf("1.2 Code(%s) = %d, want %d", tc.kind, got, tc.v12)
		}
		if got := t04.Code(tc.kind); got != tc.v04 {
			t.Fatalf("2004 Code(%s) = %d, want %d", tc.kind, got, tc.v04)
		}
	}
}

func TestEveryKindHasCodeWithMessage(t *testing.T) {
	for _, v := range []scorm.Version{scorm.Version12, scorm.Version2004} {
		table := TableFor(v)
		for _, kind := range Kinds {
			code, ok := table.codes[kind]
			if !ok {
				t.Fatalf("%s: kind %s has no code", v, kind)
			}
			if _, ok := table.messages[code]; !ok {
				t.Fatalf("%s: code %d for %s has no message", v, code, kind)
			}
		}
	}
}

func TestErrorStringAndDiagnostic(t *testing.T) {
	t04 := TableFor(scorm.Version2004)
	if got := t04.ErrorString("103"); got != "Already Initialized" {
		t.Fatalf("ErrorString(103) = %q, want Already Initialized", got)
	}
	if got := t04.Diagnostic("103"); got != "Call to Initialize failed because Initialize was already called." {
		t.Fatalf("Diagnostic(103) = %q", got)
	}
	t12 := TableFor(scorm.Version12)
	if got := t12.ErrorString("403"); got != "Element is read only" {
		t.Fatalf("ErrorString(403) = %q, want Element is read only", got)
	}
}

func TestUnknownAndEmptyCodes(t *testing.T) {
	t12 := TableFor(scorm.Version12)
	t04 := TableFor(scorm.Version2004)

	if got := t12.ErrorString("999"); got != "No Error" {
		t.Fatalf("1.2 ErrorString(999) = %q, want No Error", got)
	}
	if got := t12.Diagnostic("abc"); got != "No Error" {
		t.Fatalf("1.2 Diagnostic(abc) = %q, want No Error", got)
	}
	if got := t04.ErrorString("999"); got != "" {
		t.Fatalf("2004 ErrorString(999) = %q, want empty", got)
	}
	if got := t12.ErrorString(""); got != "" {
		t.Fatalf("1.2 ErrorString(\"\") = %q, want empty", got)
	}
	if got := t04.Diagnostic("  "); got != "" {
		t.Fatalf("2004 Diagnostic(blank) = %q, want empty", got)
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(nil); got != NoError {
		t.Fatalf("KindOf(nil) = %s, want %s", got, NoError)
	}
	err := Newf(ReadOnlyElement, "cmi.core.student_id", "element is read only")
	if got := KindOf(err); got != ReadOnlyElement {
		t.Fatalf("KindOf = %s, want %s", got, ReadOnlyElement)
	}
	if got := err.Error(); got != "cmi.core.student_id: element is read only" {
		t.Fatalf("Error() = %q", got)
	}
}
