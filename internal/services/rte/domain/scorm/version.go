// Package scorm names the SCORM run-time schema versions supported by the RTE.
package scorm

import (
	"fmt"
	"strings"
)

// Version identifies a SCORM run-time data model version.
type Version string

const (
	// Version12 is SCORM 1.2 (cmi.core.*, LMS* API names).
	Version12 Version = "1.2"
	// Version2004 is SCORM 2004 (cmi.* and adl.*, API_1484_11 names).
	Version2004 Version = "2004"
)

// ParseVersion normalizes a user supplied version label.
func ParseVersion(raw string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1.2", "12", "scorm12", "scorm1.2":
		return Version12, nil
	case "2004", "scorm2004", "1484_11", "":
		return Version2004, nil
	default:
		return "", fmt.Errorf("unsupported scorm version %q", raw)
	}
}

// Valid reports whether v is a supported version.
func (v Version) Valid() bool {
	return v == Version12 || v == Version2004
}

// APIName returns the global object name content looks up for this version.
func (v Version) APIName() string {
	if v == Version12 {
		return "API"
	}
	return "API_1484_11"
}

func (v Version) String() string {
	return string(v)
}
