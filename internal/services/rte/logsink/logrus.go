package logsink

import "github.com/sirupsen/logrus"

// Logrus writes entries through a logrus logger as structured fields.
type Logrus struct {
	entry     *logrus.Entry
	threshold Level
}

// NewLogrus wraps logger; a nil logger gets a fresh one at debug level so the
// threshold alone decides what is written.
func NewLogrus(logger *logrus.Logger, threshold Level) *Logrus {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.DebugLevel)
	}
	return &Logrus{entry: logrus.NewEntry(logger), threshold: threshold}
}

// WithFields returns a sink that adds fields to every entry.
func (s *Logrus) WithFields(fields logrus.Fields) *Logrus {
	return &Logrus{entry: s.entry.WithFields(fields), threshold: s.threshold}
}

// Threshold returns the minimum level written.
func (s *Logrus) Threshold() Level {
	return s.threshold
}

// Log implements Sink.
func (s *Logrus) Log(verb, element, message string, level Level) {
	if s.threshold == LevelNone || level < s.threshold {
		return
	}
	fields := logrus.Fields{"verb": verb}
	if element != "" {
		fields["element"] = element
	}
	e := s.entry.WithFields(fields)
	switch level {
	case LevelDebug:
		e.Debug(message)
	case LevelInfo:
		e.Info(message)
	case LevelWarning:
		e.Warn(message)
	default:
		e.Error(message)
	}
}
