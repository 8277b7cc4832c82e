// Package logsink receives the one-line-per-call log the RTE emits.
package logsink

import (
	"fmt"
	"strings"
	"sync"
)

// Level is a log severity. Entries below a sink's threshold are dropped.
type Level int

const (
	LevelDebug Level = iota + 1
	LevelInfo
	LevelWarning
	LevelError
	// LevelNone silences a sink.
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelNone:
		return "none"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel accepts a level name or its numeric value (1-5).
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "1":
		return LevelDebug, nil
	case "info", "2":
		return LevelInfo, nil
	case "warning", "warn", "3":
		return LevelWarning, nil
	case "error", "4", "":
		return LevelError, nil
	case "none", "off", "5":
		return LevelNone, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", raw)
	}
}

// Sink consumes RTE log lines. element is empty for verbs without one.
type Sink interface {
	Log(verb, element, message string, level Level)
}

// Discard drops every entry.
type Discard struct{}

// Log implements Sink.
func (Discard) Log(string, string, string, Level) {}

// Entry is one recorded log line.
type Entry struct {
	Verb    string
	Element string
	Message string
	Level   Level
}

// Recorder keeps entries in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Log implements Sink.
func (r *Recorder) Log(verb, element, message string, level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Verb: verb, Element: element, Message: message, Level: level})
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Count returns how many entries have exactly level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Reset drops recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
