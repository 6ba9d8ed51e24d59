package binding

import (
	"unicode/utf8"

	"github.com/goliatone/go-formfields/pkg/i18ntext"
	"github.com/goliatone/go-formfields/pkg/locale"
	"github.com/goliatone/go-formfields/pkg/model"
)

// ruleTarget is one text checked against a field's validation rules. Locale
// is empty for plain fields.
type ruleTarget struct {
	locale string
	text   string
}

// checkRules applies field.Validations to every non-blank text of value and
// returns one message per broken rule and translation. Values that carry no
// text (numbers, booleans) are not checked.
func (b *Binder) checkRules(msgLocale string, field model.Field, value any) []string {
	if len(field.Validations) == 0 {
		return nil
	}
	targets := ruleTargets(value)
	if len(targets) == 0 {
		return nil
	}

	var messages []string
	for _, rule := range field.Validations {
		for _, target := range targets {
			id, data, ok := b.checkRule(field, rule, target)
			if ok {
				continue
			}
			messages = append(messages, b.message(msgLocale, id, data))
		}
	}
	return messages
}

func (b *Binder) checkRule(field model.Field, rule model.ValidationRule, target ruleTarget) (string, map[string]any, bool) {
	data := messageData(field, target.locale)

	switch rule.Kind {
	case model.ValidationRuleMinLength, model.ValidationRuleMaxLength:
		limit, err := rule.Limit()
		if err != nil {
			b.logger.Warn().Err(err).Str("field", field.Name).Msg("skipping validation rule")
			return "", nil, true
		}
		data["Limit"] = limit
		count := utf8.RuneCountInString(target.text)
		if rule.Kind == model.ValidationRuleMinLength && count < limit {
			return locale.MessageFieldTooShort, data, false
		}
		if rule.Kind == model.ValidationRuleMaxLength && count > limit {
			return locale.MessageFieldTooLong, data, false
		}
	case model.ValidationRulePattern:
		re, err := rule.Regexp()
		if err != nil {
			b.logger.Warn().Err(err).Str("field", field.Name).Msg("skipping validation rule")
			return "", nil, true
		}
		if !re.MatchString(target.text) {
			return locale.MessageFieldPattern, data, false
		}
	default:
		b.logger.Warn().Str("field", field.Name).Str("kind", rule.Kind).Msg("unknown validation rule")
	}
	return "", nil, true
}

func ruleTargets(value any) []ruleTarget {
	switch v := value.(type) {
	case *i18ntext.Set:
		targets := make([]ruleTarget, 0, v.Len())
		for _, entry := range v.Entries() {
			if entry.Value != "" {
				targets = append(targets, ruleTarget{locale: entry.Locale, text: entry.Value})
			}
		}
		return targets
	case string:
		if v == "" {
			return nil
		}
		return []ruleTarget{{text: v}}
	default:
		return nil
	}
}
