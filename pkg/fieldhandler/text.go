package fieldhandler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formfields/pkg/model"
)

// TextHandler decodes single-valued plain inputs: strings, integers, numbers
// and checkbox-style booleans.
type TextHandler struct{}

var _ Handler = TextHandler{}

// CompatibleTypes implements Handler.
func (TextHandler) CompatibleTypes() []string {
	return []string{
		string(model.FieldTypeString),
		string(model.FieldTypeInteger),
		string(model.FieldTypeNumber),
		string(model.FieldTypeBoolean),
	}
}

// AcceptsProperty implements Handler.
func (TextHandler) AcceptsProperty(string) bool {
	return true
}

// Value reads the first value submitted under inputName. Missing parameters
// decode to nil. Blank strings stay strings; blank numbers and booleans are
// nil.
func (TextHandler) Value(field model.Field, inputName string, params map[string][]string, _ Files, desiredType string, _ any) (any, error) {
	if desiredType == "" {
		desiredType = string(field.Type)
	}
	values, ok := params[inputName]
	if !ok || len(values) == 0 {
		if desiredType == string(model.FieldTypeBoolean) && ok {
			return false, nil
		}
		return nil, nil
	}
	raw := values[0]
	trimmed := strings.TrimSpace(raw)

	switch model.FieldType(desiredType) {
	case model.FieldTypeString, "":
		return raw, nil
	case model.FieldTypeInteger:
		if trimmed == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for %q: %v", ErrInvalidValue, raw, inputName, err)
		}
		return n, nil
	case model.FieldTypeNumber:
		if trimmed == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for %q: %v", ErrInvalidValue, raw, inputName, err)
		}
		return f, nil
	case model.FieldTypeBoolean:
		switch strings.ToLower(trimmed) {
		case "":
			return nil, nil
		case "on", "yes":
			return true, nil
		case "off", "no":
			return false, nil
		}
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for %q: %v", ErrInvalidValue, raw, inputName, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrNoHandler, desiredType)
	}
}

// ParamValue formats value under inputName. A non-empty pattern is used as a
// fmt verb for numeric values ("%.2f").
func (TextHandler) ParamValue(inputName string, value any, pattern string) (map[string][]string, error) {
	out := make(map[string][]string)
	if value == nil {
		return out, nil
	}

	var formatted string
	switch v := value.(type) {
	case string:
		formatted = v
	case bool:
		formatted = strconv.FormatBool(v)
	case int:
		formatted = formatNumber(pattern, v, strconv.Itoa(v))
	case int64:
		formatted = formatNumber(pattern, v, strconv.FormatInt(v, 10))
	case float64:
		formatted = formatNumber(pattern, v, strconv.FormatFloat(v, 'f', -1, 64))
	case fmt.Stringer:
		formatted = v.String()
	default:
		return nil, fmt.Errorf("%w: %T for %q", ErrUnsupportedValue, value, inputName)
	}
	out[inputName] = []string{formatted}
	return out, nil
}

// IsEmpty implements Handler.
func (TextHandler) IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func formatNumber(pattern string, value any, fallback string) string {
	if strings.TrimSpace(pattern) == "" {
		return fallback
	}
	return fmt.Sprintf(pattern, value)
}
