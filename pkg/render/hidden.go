package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken constructs the hidden field carrying a CSRF token under the input
// name the backend expects.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// HiddenFromParams turns encoded parameters into hidden fields, one per value.
// Keys whose list is empty (such as the localized field marker) become a
// single empty input so the key still reaches the server. The result is
// sorted by name, then by position.
func HiddenFromParams(params map[string][]string) []HiddenField {
	names := make([]string, 0, len(params))
	for name := range params {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var out []HiddenField
	for _, name := range names {
		values := params[name]
		if len(values) == 0 {
			out = append(out, HiddenField{Name: name})
			continue
		}
		for _, value := range values {
			out = append(out, HiddenField{Name: name, Value: value})
		}
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Blank names are dropped and later duplicates win.
func SortedHiddenFields(fields ...HiddenField) []HiddenField {
	clean := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		clean[name] = field.Value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: clean[name]})
	}
	return out
}
