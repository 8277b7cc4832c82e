package datamodel

import (
	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
)

// Access is the permission class of a leaf. It never changes after the
// schema is built.
type Access int

const (
	ReadWrite Access = iota
	// WriteBeforeInit leaves are seeded by the host before Initialize and
	// read-only to content afterwards.
	WriteBeforeInit
	ReadOnly
	// WriteOnly leaves cannot be read by content; snapshots still carry
	// their values.
	WriteOnly
)

func (a Access) String() string {
	switch a {
	case ReadWrite:
		return "read_write"
	case WriteBeforeInit:
		return "write_before_init"
	case ReadOnly:
		return "read_only"
	case WriteOnly:
		return "write_only"
	default:
		return "unknown"
	}
}

// Mode selects who is reading the model.
type Mode int

const (
	// ContentMode applies the access policy as content sees it.
	ContentMode Mode = iota
	// SerializeMode lets snapshots read write-only leaves.
	SerializeMode
)

func readKind(a Access, mode Mode) errcode.Kind {
	if a == WriteOnly && mode != SerializeMode {
		return errcode.WriteOnlyElement
	}
	return errcode.NoError
}

func writeKind(a Access, state lifecycle.State) errcode.Kind {
	switch a {
	case ReadOnly:
		return errcode.ReadOnlyElement
	case WriteBeforeInit:
		if state != lifecycle.NotInitialized {
			return errcode.ReadOnlyElement
		}
	}
	return errcode.NoError
}
