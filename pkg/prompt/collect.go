package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formfields/pkg/i18ntext"
	"github.com/goliatone/go-formfields/pkg/model"
)

// CollectOptions configure CollectSet.
type CollectOptions struct {
	// Locales lists the locales to ask for, in order.
	Locales []string
	// DefaultLocale is the locale a required field must fill.
	DefaultLocale string
	// Current seeds each prompt with the stored translation.
	Current *i18ntext.Set
}

// CollectSet asks for one translation per locale and returns the resulting
// set. Text-area fields use a multi-line prompt. As with request decoding, a
// set where every translation is blank is reported as nil.
func CollectSet(ctx context.Context, driver Driver, field model.Field, opts CollectOptions) (*i18ntext.Set, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	if len(opts.Locales) == 0 {
		return nil, errors.New("prompt: at least one locale is required")
	}

	set := i18ntext.NewSet()
	for _, loc := range opts.Locales {
		message := fmt.Sprintf("%s (%s)", field.DisplayLabel(), loc)
		current := opts.Current.Get(loc)

		var validator func(string) error
		if field.Required && loc == opts.DefaultLocale {
			validator = requiredValidator(field)
		}

		var (
			value string
			err   error
		)
		if field.Type == model.FieldTypeI18nTextArea {
			value, err = driver.TextArea(ctx, TextAreaConfig{
				Message:   message,
				Default:   current,
				Help:      field.Description,
				Validator: validator,
			})
		} else {
			value, err = driver.Input(ctx, InputConfig{
				Message:   message,
				Default:   current,
				Help:      field.Description,
				Validator: validator,
			})
		}
		if err != nil {
			return nil, fmt.Errorf("prompt: %s: %w", loc, err)
		}
		// Drivers may not enforce the validator themselves.
		if validator != nil {
			if err := validator(value); err != nil {
				return nil, fmt.Errorf("prompt: %s: %w", loc, err)
			}
		}
		set.SetValue(loc, value)
	}

	if set.Blank() {
		return nil, nil
	}
	return set, nil
}

func requiredValidator(field model.Field) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field.DisplayLabel())
		}
		return nil
	}
}
