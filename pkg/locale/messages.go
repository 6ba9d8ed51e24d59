package locale

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// Message identifiers shipped with the embedded catalog.
const (
	MessageFieldRequired = "FieldRequired"
	MessageFieldInvalid  = "FieldInvalid"
	MessageFieldTooShort = "FieldTooShort"
	MessageFieldTooLong  = "FieldTooLong"
	MessageFieldPattern  = "FieldPattern"
)

//go:embed translations/active.*.toml
var builtinFS embed.FS

// Messages is a thin wrapper around a go-i18n bundle holding validation
// messages. Lookups fall back to the default language and finally to the
// message id so callers always get printable text.
type Messages struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          zerolog.Logger
}

// MessagesOption configures a Messages catalog.
type MessagesOption func(*Messages)

// WithMessagesLogger routes catalog warnings (failed loads, missing ids) to
// logger.
func WithMessagesLogger(logger zerolog.Logger) MessagesOption {
	return func(m *Messages) {
		m.logger = logger
	}
}

// NewMessages builds a catalog for defaultLocale seeded with the embedded
// English and French translations.
func NewMessages(defaultLocale string, opts ...MessagesOption) (*Messages, error) {
	name, err := ParseTag(defaultLocale)
	if err != nil {
		return nil, err
	}
	tag := language.MustParse(name)

	m := &Messages{
		bundle:          i18n.NewBundle(tag),
		defaultLanguage: tag,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(builtinFS, "translations/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("locale: list builtin messages: %w", err)
	}
	for _, file := range files {
		if _, err := m.bundle.LoadMessageFileFS(builtinFS, file); err != nil {
			return nil, fmt.Errorf("locale: load builtin %s: %w", file, err)
		}
	}
	return m, nil
}

// LoadFile merges an additional message file. The language is taken from the
// file name (active.es.toml).
func (m *Messages) LoadFile(path string) error {
	if _, err := m.bundle.LoadMessageFile(path); err != nil {
		return fmt.Errorf("locale: load messages %s: %w", path, err)
	}
	return nil
}

// T renders the message identified by id for locale.
func (m *Messages) T(locale, id string, data map[string]any) string {
	if m == nil || id == "" {
		return id
	}

	languages := make([]string, 0, 2)
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, m.defaultLanguage.String())

	localizer := i18n.NewLocalizer(m.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		m.logger.Warn().Err(err).Str("id", id).Strs("locales", languages).Msg("localize message")
		return id
	}
	return msg
}
