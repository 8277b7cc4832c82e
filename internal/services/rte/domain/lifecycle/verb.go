package lifecycle

import "github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"

// Verb names one RTE call.
type Verb string

const (
	Initialize     Verb = "Initialize"
	Terminate      Verb = "Terminate"
	GetValue       Verb = "GetValue"
	SetValue       Verb = "SetValue"
	Commit         Verb = "Commit"
	GetLastError   Verb = "GetLastError"
	GetErrorString Verb = "GetErrorString"
	GetDiagnostic  Verb = "GetDiagnostic"
)

// Verbs lists the eight verbs in API order.
var Verbs = []Verb{Initialize, Terminate, GetValue, SetValue, Commit, GetLastError, GetErrorString, GetDiagnostic}

var legacyNames = map[Verb]string{
	Initialize:     "LMSInitialize",
	Terminate:      "LMSFinish",
	GetValue:       "LMSGetValue",
	SetValue:       "LMSSetValue",
	Commit:         "LMSCommit",
	GetLastError:   "LMSGetLastError",
	GetErrorString: "LMSGetErrorString",
	GetDiagnostic:  "LMSGetDiagnostic",
}

var byName = func() map[string]Verb {
	out := make(map[string]Verb, len(Verbs)*2)
	for _, v := range Verbs {
		out[string(v)] = v
		out[legacyNames[v]] = v
	}
	return out
}()

// ParseVerb accepts canonical names and the SCORM 1.2 LMS* aliases.
func ParseVerb(name string) (Verb, bool) {
	v, ok := byName[name]
	return v, ok
}

// Name returns the function name content uses for v under version.
func (v Verb) Name(version scorm.Version) string {
	if version == scorm.Version12 {
		if legacy, ok := legacyNames[v]; ok {
			return legacy
		}
	}
	return string(v)
}

// Informational reports whether v only reads the error register.
func (v Verb) Informational() bool {
	return v == GetLastError || v == GetErrorString || v == GetDiagnostic
}
