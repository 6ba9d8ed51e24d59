package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldType names the value kind a field produces. Handlers declare the types
// they are compatible with and the registry routes on this value.
type FieldType string

const (
	FieldTypeString       FieldType = "string"
	FieldTypeInteger      FieldType = "integer"
	FieldTypeNumber       FieldType = "number"
	FieldTypeBoolean      FieldType = "boolean"
	FieldTypeI18nText     FieldType = "I18nText"
	FieldTypeI18nTextArea FieldType = "I18nTextArea"
)

const (
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// InputSeparator joins a namespace prefix with a field name, and an input
// name with a locale tag.
const InputSeparator = "_"

// ValidationRule represents a single validation constraint applied to a field.
// Length limits encode their threshold in Params["value"] while pattern rules
// preserve the original expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// ErrInvalidRule reports a validation rule that cannot be applied.
var ErrInvalidRule = errors.New("model: invalid validation rule")

// Limit returns the non-negative threshold of a length rule.
func (r ValidationRule) Limit() (int, error) {
	raw := strings.TrimSpace(r.Params["value"])
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: %s value %q", ErrInvalidRule, r.Kind, raw)
	}
	return limit, nil
}

// Regexp compiles the expression of a pattern rule.
func (r ValidationRule) Regexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile(r.Params["pattern"])
	if err != nil {
		return nil, fmt.Errorf("%w: pattern: %v", ErrInvalidRule, err)
	}
	return re, nil
}

// Validate reports whether the rule has a known kind and usable parameters.
func (r ValidationRule) Validate() error {
	switch r.Kind {
	case ValidationRuleMinLength, ValidationRuleMaxLength:
		_, err := r.Limit()
		return err
	case ValidationRulePattern:
		_, err := r.Regexp()
		return err
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}
}

// Field describes an individual input inside a form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Required    bool              `json:"required" yaml:"required"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Pattern     string            `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// InputName returns the request parameter name for the field inside the
// optional namespace prefix ("form" + "title" becomes "form_title").
func (f Field) InputName(prefix string) string {
	name := strings.TrimSpace(f.Name)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return name
	}
	return prefix + InputSeparator + name
}

// DisplayLabel returns the label used in messages, falling back to the field
// name.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// Localized reports whether the field carries an internationalized value.
func (f Field) Localized() bool {
	return f.Type == FieldTypeI18nText || f.Type == FieldTypeI18nTextArea
}

// FormModel groups the fields bound together from a single submission.
type FormModel struct {
	ID       string            `json:"id" yaml:"id"`
	Fields   []Field           `json:"fields" yaml:"fields"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field returns the field named name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
