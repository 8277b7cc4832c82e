package scenario

import (
	"fmt"
	"strconv"
)

const (
	resultTrue  = "true"
	resultFalse = "false"
)

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

func stringArg(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	return formatValue(value)
}

// formatValue renders a script value the way content would pass it to the
// run-time: integers without a fraction, booleans as true/false, nil as "".
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// valuesEqual compares a JSONPath result with an expected script value.
// Scalars compare by their formatted text; lists compare element-wise.
func valuesEqual(got, want any) bool {
	gotList, gotIsList := got.([]any)
	wantList, wantIsList := want.([]any)
	if gotIsList != wantIsList {
		return false
	}
	if !gotIsList {
		return formatValue(got) == formatValue(want)
	}
	if len(gotList) != len(wantList) {
		return false
	}
	for i := range gotList {
		if !valuesEqual(gotList[i], wantList[i]) {
			return false
		}
	}
	return true
}
