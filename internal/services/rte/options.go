package rte

import (
	"github.com/louisbranch/scormrte/internal/services/rte/domain/datamodel"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
	"github.com/louisbranch/scormrte/internal/services/rte/logsink"
)

// CommitFunc receives a snapshot when content calls Commit. A returned
// error fails the Commit with a general commit failure.
type CommitFunc func(*datamodel.Tree) error

// Options configures an API.
type Options struct {
	// Version selects the data model; defaults to SCORM 2004.
	Version scorm.Version
	// Locale selects error message text; defaults to en-US.
	Locale string
	// Unimplemented lists optional SCORM 1.2 element groups to report as
	// not implemented.
	Unimplemented []string
	// Sink receives one line per call; defaults to logsink.Discard.
	Sink logsink.Sink
	// Observers receive a Call record after every verb.
	Observers []Observer
	// OnCommit hands committed state to a persistence collaborator.
	OnCommit CommitFunc
}

func (o Options) withDefaults() Options {
	if o.Version == "" {
		o.Version = scorm.Version2004
	}
	if o.Locale == "" {
		o.Locale = errcode.BaseLocale
	}
	if o.Sink == nil {
		o.Sink = logsink.Discard{}
	}
	return o
}
