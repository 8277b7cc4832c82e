package errcode

import (
	"errors"
	"fmt"
)

// Error is a data model or lifecycle failure raised while serving a verb.
type Error struct {
	Kind    Kind   // Version independent condition
	Element string // Dotted element path, empty for lifecycle verbs
	Message string // Internal message for logs
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Element == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Element, e.Message)
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error with a kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error for an element with a formatted message.
func Newf(kind Kind, element string, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Element: element,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf extracts the kind carried by err. Nil maps to NoError and foreign
// errors map to GeneralException.
func KindOf(err error) Kind {
	if err == nil {
		return NoError
	}
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return GeneralException
}
