package datamodel

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"golang.org/x/text/language"
)

// Format validates a value before it is stored. It returns NoError,
// TypeMismatch or ValueOutOfRange.
type Format func(value string) errcode.Kind

// Vocabulary accepts only the listed tokens.
func Vocabulary(tokens ...string) Format {
	return func(value string) errcode.Kind {
		if slices.Contains(tokens, value) {
			return errcode.NoError
		}
		return errcode.TypeMismatch
	}
}

// Real accepts a decimal number within [lo, hi]. Use math.Inf for an open
// bound.
func Real(lo, hi float64) Format {
	return func(value string) errcode.Kind {
		f, ok := parseReal(value)
		if !ok {
			return errcode.TypeMismatch
		}
		if f < lo || f > hi {
			return errcode.ValueOutOfRange
		}
		return errcode.NoError
	}
}

// Integer accepts a whole number within [lo, hi].
func Integer(lo, hi int) Format {
	return func(value string) errcode.Kind {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return errcode.TypeMismatch
		}
		if n < lo || n > hi {
			return errcode.ValueOutOfRange
		}
		return errcode.NoError
	}
}

// Pattern accepts values matching re.
func Pattern(re *regexp.Regexp) Format {
	return func(value string) errcode.Kind {
		if re.MatchString(value) {
			return errcode.NoError
		}
		return errcode.TypeMismatch
	}
}

// Blank wraps f so the empty string is also accepted.
func Blank(f Format) Format {
	return func(value string) errcode.Kind {
		if value == "" {
			return errcode.NoError
		}
		return f(value)
	}
}

// OneOf accepts a value any of the formats accepts. When all reject, the
// first rejection is reported.
func OneOf(formats ...Format) Format {
	return func(value string) errcode.Kind {
		first := errcode.TypeMismatch
		for i, f := range formats {
			kind := f(value)
			if kind == errcode.NoError {
				return kind
			}
			if i == 0 {
				first = kind
			}
		}
		return first
	}
}

var (
	identifierRE = regexp.MustCompile(`^\S+$`)
	// CMITimespan: HHHH:MM:SS.SS
	timespan12RE = regexp.MustCompile(`^\d{2,4}:\d{2}:\d{2}(\.\d{1,2})?$`)
	// CMITime: HH:MM:SS.SS
	time12RE = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d{1,2})?$`)
	// ISO 8601 duration restricted to the SCORM 2004 timeinterval profile.
	durationRE = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d{1,2})?S)?)?$`)
	// ISO 8601 timestamp, second(10,0) precision.
	timestampRE  = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2}(T\d{2}(:\d{2}(:\d{2}(\.\d{1,2})?)?)?(Z|[+-]\d{2}(:\d{2})?)?)?)?)?$`)
	navRequestRE = regexp.MustCompile(`^(continue|previous|exit|exitAll|abandon|abandonAll|suspendAll|_none_|\{target=[^}\s]+\}(choice|jump))$`)
)

// Identifier accepts a non-empty token without whitespace.
var Identifier = Pattern(identifierRE)

// Timespan12 accepts SCORM 1.2 CMITimespan values.
var Timespan12 = Pattern(timespan12RE)

// Time12 accepts SCORM 1.2 CMITime values.
var Time12 = Pattern(time12RE)

// Duration accepts SCORM 2004 timeinterval values such as PT1H30M5.5S.
func Duration(value string) errcode.Kind {
	if value == "P" || strings.HasSuffix(value, "T") || !durationRE.MatchString(value) {
		return errcode.TypeMismatch
	}
	return errcode.NoError
}

// Timestamp accepts SCORM 2004 time(second,10,0) values.
var Timestamp = Pattern(timestampRE)

// NavRequest accepts adl.nav.request tokens.
var NavRequest = Pattern(navRequestRE)

// LanguageCode accepts an empty value or a BCP 47 tag.
func LanguageCode(value string) errcode.Kind {
	if value == "" {
		return errcode.NoError
	}
	if _, err := language.Parse(value); err != nil {
		return errcode.TypeMismatch
	}
	return errcode.NoError
}

// AnyReal accepts any decimal number.
var AnyReal = Real(math.Inf(-1), math.Inf(1))

func parseReal(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
