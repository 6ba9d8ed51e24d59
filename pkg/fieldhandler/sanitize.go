package fieldhandler

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans submitted text before it is stored in a value.
type Sanitizer interface {
	Sanitize(string) string
}

// PolicySanitizer applies a bluemonday policy and unescapes the entities the
// policy emits for text nodes, so stored values stay plain text and survive
// another render and submit unchanged. Output is escaped when rendered.
type PolicySanitizer struct {
	Policy *bluemonday.Policy
}

// Sanitize implements Sanitizer.
func (s PolicySanitizer) Sanitize(value string) string {
	if s.Policy == nil {
		return value
	}
	return html.UnescapeString(s.Policy.Sanitize(value))
}

var (
	richPolicyOnce  sync.Once
	richPolicy      PolicySanitizer
	plainPolicyOnce sync.Once
	plainPolicy     PolicySanitizer
)

// RichTextSanitizer keeps the user-generated-content subset of HTML. Used for
// text areas that accept formatting.
func RichTextSanitizer() Sanitizer {
	richPolicyOnce.Do(func() {
		richPolicy = PolicySanitizer{Policy: bluemonday.UGCPolicy()}
	})
	return richPolicy
}

// PlainTextSanitizer strips every tag.
func PlainTextSanitizer() Sanitizer {
	plainPolicyOnce.Do(func() {
		plainPolicy = PolicySanitizer{Policy: bluemonday.StrictPolicy()}
	})
	return plainPolicy
}
