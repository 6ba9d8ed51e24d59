package binding

import (
	"errors"
	"sort"
	"strings"
)

// ValidationErrors maps field names to the localized messages produced while
// binding a submission. The shape matches the error payloads renderers accept
// for inline field feedback.
type ValidationErrors map[string][]string

// Error implements error with fields listed in name order.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "binding: validation failed"
	}
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(v[name], ", "))
	}
	return "binding: validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) add(field, message string) {
	v[field] = append(v[field], message)
}

// AsValidationErrors extracts ValidationErrors from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
