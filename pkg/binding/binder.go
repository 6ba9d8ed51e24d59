package binding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formfields/pkg/fieldhandler"
	"github.com/goliatone/go-formfields/pkg/locale"
	"github.com/goliatone/go-formfields/pkg/model"
)

const defaultMaxMemory = 32 << 20

// Negotiator picks the message locale for a request from its Accept-Language
// header. *locale.Manager satisfies it.
type Negotiator interface {
	Match(acceptLanguage string) string
}

// Submission carries the raw data of one form post.
type Submission struct {
	Params map[string][]string
	Files  fieldhandler.Files
	// Locale selects the language of validation messages.
	Locale string
	// Previous holds the values currently stored for the form, keyed by field
	// name. Handlers may consult them while decoding.
	Previous map[string]any
}

// Binder decodes submissions field by field through a handler registry and
// reports required fields left empty.
type Binder struct {
	registry   *fieldhandler.Registry
	resolver   locale.Resolver
	messages   *locale.Messages
	negotiator Negotiator
	namespace  string
	logger     zerolog.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithMessages sets the catalog used for validation messages. Without one
// the message ids are reported verbatim.
func WithMessages(messages *locale.Messages) Option {
	return func(b *Binder) {
		b.messages = messages
	}
}

// WithNegotiator sets the Accept-Language negotiator used by BindRequest.
func WithNegotiator(n Negotiator) Option {
	return func(b *Binder) {
		b.negotiator = n
	}
}

// WithNamespace prefixes every input name ("article" binds "article_title").
func WithNamespace(namespace string) Option {
	return func(b *Binder) {
		b.namespace = strings.TrimSpace(namespace)
	}
}

// WithLogger attaches a logger for binding diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}

// NewBinder builds a binder over registry. resolver supplies the message
// locale when a submission does not name one.
func NewBinder(registry *fieldhandler.Registry, resolver locale.Resolver, opts ...Option) *Binder {
	b := &Binder{
		registry: registry,
		resolver: resolver,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Bind decodes every field of form from sub. Absent values are left out of
// the result; a localized field that was rendered and then emptied (see
// Cleared) is reported with a nil value so callers can drop the stored
// translations. Required fields whose handler reports them empty, values that
// break a validation rule and values that cannot be decoded are collected
// into ValidationErrors, which is returned alongside the values that did
// decode. Routing failures abort the bind.
func (b *Binder) Bind(ctx context.Context, form model.FormModel, sub Submission) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b == nil || b.registry == nil {
		return nil, errors.New("binding: binder has no handler registry")
	}

	msgLocale := sub.Locale
	if msgLocale == "" && b.resolver != nil {
		msgLocale = b.resolver.DefaultLocale()
	}

	values := make(map[string]any, len(form.Fields))
	verrs := make(ValidationErrors)

	for _, field := range form.Fields {
		handler, err := b.registry.HandlerFor(field, "")
		if err != nil {
			return nil, fmt.Errorf("binding: form %q: %w", form.ID, err)
		}

		inputName := field.InputName(b.namespace)
		value, err := handler.Value(field, inputName, sub.Params, sub.Files, string(field.Type), sub.Previous[field.Name])
		if err != nil {
			if !errors.Is(err, fieldhandler.ErrInvalidValue) && !errors.Is(err, fieldhandler.ErrMalformedParameter) {
				return nil, fmt.Errorf("binding: field %q: %w", field.Name, err)
			}
			b.logger.Debug().Err(err).Str("form", form.ID).Str("field", field.Name).Msg("field value rejected")
			verrs.add(field.Name, b.message(msgLocale, locale.MessageFieldInvalid, messageData(field, "")))
			continue
		}

		if field.Required && handler.IsEmpty(value) {
			verrs.add(field.Name, b.message(msgLocale, locale.MessageFieldRequired, messageData(field, "")))
		} else if value != nil {
			for _, message := range b.checkRules(msgLocale, field, value) {
				verrs.add(field.Name, message)
			}
		}

		switch {
		case value != nil:
			values[field.Name] = value
		case field.Localized() && Cleared(sub.Params, inputName):
			values[field.Name] = nil
		}
	}

	b.logger.Debug().
		Str("form", form.ID).
		Int("values", len(values)).
		Int("errors", len(verrs)).
		Msg("submission bound")

	if len(verrs) > 0 {
		return values, verrs
	}
	return values, nil
}

// BindRequest parses r (urlencoded or multipart) and binds it. The message
// locale is negotiated from Accept-Language when a negotiator is configured.
func (b *Binder) BindRequest(r *http.Request, form model.FormModel) (map[string]any, error) {
	sub := Submission{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(defaultMaxMemory); err != nil {
			return nil, fmt.Errorf("binding: parse multipart form: %w", err)
		}
		if r.MultipartForm != nil {
			sub.Files = fieldhandler.Files(r.MultipartForm.File)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("binding: parse form: %w", err)
	}
	sub.Params = r.Form

	if b.negotiator != nil {
		sub.Locale = b.negotiator.Match(r.Header.Get("Accept-Language"))
	}
	return b.Bind(r.Context(), form, sub)
}

// Encode flattens typed values back into request parameters, the inverse of
// Bind. Fields without a value contribute nothing.
func (b *Binder) Encode(form model.FormModel, values map[string]any) (url.Values, error) {
	out := make(url.Values)
	for _, field := range form.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		handler, err := b.registry.HandlerFor(field, "")
		if err != nil {
			return nil, fmt.Errorf("binding: form %q: %w", form.ID, err)
		}
		params, err := handler.ParamValue(field.InputName(b.namespace), value, field.Pattern)
		if err != nil {
			return nil, fmt.Errorf("binding: encode field %q: %w", field.Name, err)
		}
		for key, list := range params {
			if _, exists := out[key]; !exists {
				out[key] = []string{}
			}
			out[key] = append(out[key], list...)
		}
	}
	return out, nil
}

// Cleared reports whether params carry the bare inputName marker and every
// per-locale entry is blank, meaning a localized field was rendered and then
// emptied. A missing marker means the field was never part of the post.
func Cleared(params map[string][]string, inputName string) bool {
	if _, ok := params[inputName]; !ok {
		return false
	}
	prefix := inputName + model.InputSeparator
	for key, list := range params {
		if len(key) <= len(prefix) || !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, value := range list {
			if value != "" {
				return false
			}
		}
	}
	return true
}

func (b *Binder) message(msgLocale, id string, data map[string]any) string {
	if b.messages == nil {
		return id
	}
	return b.messages.T(msgLocale, id, data)
}

// messageData labels a message with the field, qualified by the translation
// locale when the message concerns one entry of a localized value.
func messageData(field model.Field, loc string) map[string]any {
	label := field.DisplayLabel()
	if loc != "" {
		label += " (" + loc + ")"
	}
	return map[string]any{"Label": label, "Field": field.Name, "Locale": loc}
}
