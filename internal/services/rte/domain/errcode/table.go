package errcode

import (
	"strconv"
	"strings"
	"sync"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
)

var codes12 = map[Kind]int{
	NoError:                   0,
	GeneralException:          101,
	GeneralInitFailure:        101,
	AlreadyInitialized:        101,
	AlreadyTerminated:         101,
	GeneralTerminationFailure: 101,
	TerminateBeforeInit:       301,
	TerminateAfterTerminate:   101,
	GetBeforeInit:             301,
	GetAfterTerminate:         101,
	SetBeforeInit:             301,
	SetAfterTerminate:         101,
	CommitBeforeInit:          301,
	CommitAfterTerminate:      101,
	InvalidArgument:           201,
	GeneralGetFailure:         101,
	GeneralSetFailure:         101,
	GeneralCommitFailure:      101,
	UnknownElement:            201,
	NotImplementedElement:     401,
	ElementCannotHaveChildren: 202,
	ElementCannotHaveCount:    203,
	ElementIsKeyword:          402,
	ValueNotInitialized:       101,
	ReadOnlyElement:           403,
	WriteOnlyElement:          404,
	TypeMismatch:              405,
	ValueOutOfRange:           405,
	DependencyNotEstablished:  101,
}

var codes2004 = map[Kind]int{
	NoError:                   0,
	GeneralException:          101,
	GeneralInitFailure:        102,
	AlreadyInitialized:        103,
	AlreadyTerminated:         104,
	GeneralTerminationFailure: 111,
	TerminateBeforeInit:       112,
	TerminateAfterTerminate:   113,
	GetBeforeInit:             122,
	GetAfterTerminate:         123,
	SetBeforeInit:             132,
	SetAfterTerminate:         133,
	CommitBeforeInit:          142,
	CommitAfterTerminate:      143,
	InvalidArgument:           201,
	GeneralGetFailure:         301,
	GeneralSetFailure:         351,
	GeneralCommitFailure:      391,
	UnknownElement:            401,
	NotImplementedElement:     402,
	ElementCannotHaveChildren: 301,
	ElementCannotHaveCount:    301,
	ElementIsKeyword:          404,
	ValueNotInitialized:       403,
	ReadOnlyElement:           404,
	WriteOnlyElement:          405,
	TypeMismatch:              406,
	ValueOutOfRange:           407,
	DependencyNotEstablished:  408,
}

// Table resolves kinds to codes and codes to messages for one version and
// locale. A Table is immutable and may be shared between RTE instances.
type Table struct {
	version  scorm.Version
	codes    map[Kind]int
	messages map[int]Message
	unknown  Message
}

var (
	baseTablesOnce sync.Once
	baseTables     map[scorm.Version]*Table
)

// TableFor returns the shared base-locale table for v.
func TableFor(v scorm.Version) *Table {
	baseTablesOnce.Do(func() {
		baseTables = map[scorm.Version]*Table{
			scorm.Version12:   DefaultCatalog().Table(scorm.Version12, BaseLocale),
			scorm.Version2004: DefaultCatalog().Table(scorm.Version2004, BaseLocale),
		}
	})
	if t, ok := baseTables[v]; ok {
		return t
	}
	return baseTables[scorm.Version2004]
}

// Table builds a table for version v rendered in locale.
func (c *Catalog) Table(v scorm.Version, locale string) *Table {
	t := &Table{
		version:  v,
		codes:    codes2004,
		messages: c.Messages(v, locale),
	}
	if v == scorm.Version12 {
		t.codes = codes12
		// 1.2 content expects "No Error" for codes it does not recognise.
		t.unknown = t.messages[0]
	}
	return t
}

// Version returns the schema version this table serves.
func (t *Table) Version() scorm.Version {
	return t.version
}

// Code returns the numeric code reported for kind.
func (t *Table) Code(kind Kind) int {
	if code, ok := t.codes[kind]; ok {
		return code
	}
	return t.codes[GeneralException]
}

// ErrorString returns the short message for a code given as text.
func (t *Table) ErrorString(code string) string {
	msg, ok := t.lookup(code)
	if !ok {
		return ""
	}
	return msg.Short
}

// Diagnostic returns the detailed message for a code given as text.
func (t *Table) Diagnostic(code string) string {
	msg, ok := t.lookup(code)
	if !ok {
		return ""
	}
	return msg.Detail
}

func (t *Table) lookup(raw string) (Message, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Message{}, false
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return t.unknown, true
	}
	if msg, ok := t.messages[code]; ok {
		return msg, true
	}
	return t.unknown, true
}
