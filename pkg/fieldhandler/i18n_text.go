package fieldhandler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formfields/pkg/i18ntext"
	"github.com/goliatone/go-formfields/pkg/locale"
	"github.com/goliatone/go-formfields/pkg/model"
)

// I18nTextHandler decodes localized text submitted as one parameter per
// locale. It serves both single-line and text-area fields.
type I18nTextHandler struct {
	resolver   locale.Resolver
	sanitizers map[string]Sanitizer
	fallback   Sanitizer
}

var _ Handler = (*I18nTextHandler)(nil)

// I18nOption configures an I18nTextHandler.
type I18nOption func(*I18nTextHandler)

// WithSanitizer cleans decoded values of the listed field types. With no
// types the sanitizer applies to every field the handler decodes.
func WithSanitizer(s Sanitizer, types ...model.FieldType) I18nOption {
	return func(h *I18nTextHandler) {
		if s == nil {
			return
		}
		if len(types) == 0 {
			h.fallback = s
			return
		}
		if h.sanitizers == nil {
			h.sanitizers = make(map[string]Sanitizer, len(types))
		}
		for _, t := range types {
			h.sanitizers[string(t)] = s
		}
	}
}

// NewI18nTextHandler builds the handler. resolver supplies the default locale
// consulted by IsEmpty; nil means no default-locale check.
func NewI18nTextHandler(resolver locale.Resolver, opts ...I18nOption) *I18nTextHandler {
	h := &I18nTextHandler{resolver: resolver}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// CompatibleTypes implements Handler.
func (h *I18nTextHandler) CompatibleTypes() []string {
	return []string{string(model.FieldTypeI18nText), string(model.FieldTypeI18nTextArea)}
}

// AcceptsProperty implements Handler. Any property routed here is accepted.
func (h *I18nTextHandler) AcceptsProperty(string) bool {
	return true
}

// Value collects every parameter named inputName + "_" + locale into a Set.
// The bare inputName marker is ignored. It returns nil when nothing matched
// or every submitted translation is blank.
func (h *I18nTextHandler) Value(field model.Field, inputName string, params map[string][]string, _ Files, desiredType string, _ any) (any, error) {
	if desiredType == "" {
		desiredType = string(field.Type)
	}
	sanitizer := h.sanitizerFor(desiredType)
	prefix := inputName + model.InputSeparator

	set := i18ntext.NewSet()
	for _, key := range sortedParamKeys(params) {
		if len(key) <= len(prefix) || !strings.HasPrefix(key, prefix) {
			continue
		}
		values := params[key]
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: %q has no values", ErrMalformedParameter, key)
		}
		value := values[0]
		if sanitizer != nil {
			value = sanitizer.Sanitize(value)
		}
		set.SetValue(key[len(prefix):], value)
	}

	if set.Blank() {
		return nil, nil
	}
	return set, nil
}

// ParamValue flattens value into one single-element list per locale plus an
// empty list under the bare inputName. pattern is ignored.
func (h *I18nTextHandler) ParamValue(inputName string, value any, _ string) (map[string][]string, error) {
	out := make(map[string][]string)
	if value == nil {
		return out, nil
	}
	set, ok := asSet(value)
	if !ok {
		return nil, fmt.Errorf("%w: %T for %q", ErrUnsupportedValue, value, inputName)
	}
	if set == nil {
		return out, nil
	}
	for _, entry := range set.Entries() {
		out[inputName+model.InputSeparator+entry.Locale] = []string{entry.Value}
	}
	out[inputName] = []string{}
	return out, nil
}

// IsEmpty reports true for nil or empty sets, when the default-locale
// translation is present but blank, or when every translation is blank.
func (h *I18nTextHandler) IsEmpty(value any) bool {
	set, ok := asSet(value)
	if !ok || set.IsEmpty() {
		return true
	}
	if h.resolver != nil {
		if def := h.resolver.DefaultLocale(); def != "" {
			if text, present := set.Value(def); present && text == "" {
				return true
			}
		}
	}
	return set.Blank()
}

func (h *I18nTextHandler) sanitizerFor(fieldType string) Sanitizer {
	if s, ok := h.sanitizers[fieldType]; ok {
		return s
	}
	return h.fallback
}

func asSet(value any) (*i18ntext.Set, bool) {
	switch v := value.(type) {
	case *i18ntext.Set:
		return v, true
	case i18ntext.Set:
		return &v, true
	default:
		return nil, false
	}
}

func sortedParamKeys(params map[string][]string) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
