package fieldhandler

import (
	"errors"
	"mime/multipart"

	"github.com/goliatone/go-formfields/pkg/model"
)

var (
	// ErrMalformedParameter is returned when a matching parameter carries no
	// values.
	ErrMalformedParameter = errors.New("fieldhandler: malformed parameter")
	// ErrUnsupportedValue is returned when a handler is asked to encode a value
	// of a type it does not produce.
	ErrUnsupportedValue = errors.New("fieldhandler: unsupported value")
	// ErrInvalidValue is returned when a submitted value cannot be converted to
	// the desired type.
	ErrInvalidValue = errors.New("fieldhandler: invalid value")
	// ErrNoHandler is returned when no registered handler serves a field type.
	ErrNoHandler = errors.New("fieldhandler: no handler")
	// ErrDuplicateType is returned when two handlers claim the same type.
	ErrDuplicateType = errors.New("fieldhandler: type already registered")
)

// Files mirrors multipart file uploads keyed by parameter name.
type Files map[string][]*multipart.FileHeader

// Handler converts between request parameters and a typed field value.
type Handler interface {
	// CompatibleTypes lists the field types this handler can produce.
	CompatibleTypes() []string
	// AcceptsProperty reports whether the handler may serve the named
	// property.
	AcceptsProperty(name string) bool
	// Value decodes the parameters submitted for inputName into a value of
	// desiredType. A nil value with a nil error means the field is absent.
	Value(field model.Field, inputName string, params map[string][]string, files Files, desiredType string, previous any) (any, error)
	// ParamValue is the inverse of Value: the parameters a request would need
	// to carry to produce value.
	ParamValue(inputName string, value any, pattern string) (map[string][]string, error)
	// IsEmpty reports whether value counts as missing for required checks.
	IsEmpty(value any) bool
}
