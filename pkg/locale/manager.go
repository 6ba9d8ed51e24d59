package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidTag is returned when a locale identifier cannot be parsed as a
// BCP 47 language tag.
var ErrInvalidTag = errors.New("locale: invalid language tag")

// Resolver supplies the default locale tag handlers fall back to when judging
// localized values.
type Resolver interface {
	DefaultLocale() string
}

// StaticResolver resolves to a fixed locale tag.
type StaticResolver string

// DefaultLocale implements Resolver.
func (s StaticResolver) DefaultLocale() string {
	return string(s)
}

// ParseTag canonicalises raw into its BCP 47 form ("en-us" becomes "en-US").
func ParseTag(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty tag", ErrInvalidTag)
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidTag, raw, err)
	}
	return tag.String(), nil
}

// Manager tracks the default and supported locales of a form and negotiates
// request locales against them.
type Manager struct {
	defaultTag language.Tag
	tags       []language.Tag
	names      []string
	matcher    language.Matcher
}

var _ Resolver = (*Manager)(nil)

// NewManager builds a manager for defaultTag plus the supported tags. The
// default locale is always supported and listed first; duplicates are
// dropped.
func NewManager(defaultTag string, supported ...string) (*Manager, error) {
	def, err := ParseTag(defaultTag)
	if err != nil {
		return nil, err
	}

	m := &Manager{}
	seen := make(map[string]struct{}, len(supported)+1)
	for _, raw := range append([]string{def}, supported...) {
		name, err := ParseTag(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		m.names = append(m.names, name)
		m.tags = append(m.tags, language.MustParse(name))
	}
	m.defaultTag = m.tags[0]
	m.matcher = language.NewMatcher(m.tags)
	return m, nil
}

// DefaultLocale implements Resolver.
func (m *Manager) DefaultLocale() string {
	if m == nil {
		return ""
	}
	return m.defaultTag.String()
}

// Supported returns the supported locale tags, default first.
func (m *Manager) Supported() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// IsSupported reports whether raw names one of the supported locales.
func (m *Manager) IsSupported(raw string) bool {
	if m == nil {
		return false
	}
	name, err := ParseTag(raw)
	if err != nil {
		return false
	}
	for _, candidate := range m.names {
		if candidate == name {
			return true
		}
	}
	return false
}

// Match negotiates an Accept-Language header (or a single tag) against the
// supported locales. Unparseable or unmatched input resolves to the default.
func (m *Manager) Match(acceptLanguage string) string {
	if m == nil {
		return ""
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return m.DefaultLocale()
	}
	requested, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(requested) == 0 {
		return m.DefaultLocale()
	}
	_, idx, confidence := m.matcher.Match(requested...)
	if confidence == language.No || idx < 0 || idx >= len(m.names) {
		return m.DefaultLocale()
	}
	return m.names[idx]
}
