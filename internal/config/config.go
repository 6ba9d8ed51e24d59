package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfields/pkg/locale"
	"github.com/goliatone/go-formfields/pkg/model"
)

// Config is the on-disk description of the locales, handler behaviour,
// message catalogs and forms served by a runtime.
type Config struct {
	Locale   Locale            `yaml:"locale"`
	Handlers Handlers          `yaml:"handlers"`
	Messages []string          `yaml:"messages"`
	Forms    []model.FormModel `yaml:"forms"`
}

// Locale lists the default and supported locales.
type Locale struct {
	Default   string   `yaml:"default"`
	Supported []string `yaml:"supported"`
}

// Handlers toggles optional handler behaviour.
type Handlers struct {
	// SanitizeTextArea runs I18nTextArea submissions through the rich-text
	// sanitizer.
	SanitizeTextArea bool `yaml:"sanitizeTextArea"`
	// SanitizeText strips markup from I18nText submissions.
	SanitizeText bool `yaml:"sanitizeText"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Locale: Locale{
			Default:   "en",
			Supported: []string{"en"},
		},
		Handlers: Handlers{SanitizeTextArea: true},
	}
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes YAML data on top of Default and validates the result. source
// names the document in error messages.
func Parse(data []byte, source string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", source, err)
	}
	if err := cfg.normalise(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

// Form returns the form with the given id.
func (c Config) Form(id string) (model.FormModel, bool) {
	for _, form := range c.Forms {
		if form.ID == id {
			return form, true
		}
	}
	return model.FormModel{}, false
}

func (c *Config) normalise() error {
	def, err := locale.ParseTag(c.Locale.Default)
	if err != nil {
		return fmt.Errorf("locale.default: %w", err)
	}
	c.Locale.Default = def

	supported := make([]string, 0, len(c.Locale.Supported))
	for i, raw := range c.Locale.Supported {
		tag, err := locale.ParseTag(raw)
		if err != nil {
			return fmt.Errorf("locale.supported[%d]: %w", i, err)
		}
		supported = append(supported, tag)
	}
	c.Locale.Supported = supported

	seen := make(map[string]struct{}, len(c.Forms))
	for i := range c.Forms {
		form := &c.Forms[i]
		form.ID = strings.TrimSpace(form.ID)
		if form.ID == "" {
			return fmt.Errorf("forms[%d]: id is required", i)
		}
		if _, dup := seen[form.ID]; dup {
			return fmt.Errorf("forms[%d]: duplicate form %q", i, form.ID)
		}
		seen[form.ID] = struct{}{}

		for j := range form.Fields {
			field := &form.Fields[j]
			field.Name = strings.TrimSpace(field.Name)
			if field.Name == "" {
				return fmt.Errorf("forms[%d].fields[%d]: name is required", i, j)
			}
			if field.Type == "" {
				field.Type = model.FieldTypeString
			}
			for k, rule := range field.Validations {
				if err := rule.Validate(); err != nil {
					return fmt.Errorf("forms[%d].fields[%d].validations[%d]: %w", i, j, k, err)
				}
			}
		}
	}

	for i, path := range c.Messages {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("messages[%d]: path is required", i)
		}
	}
	return nil
}
