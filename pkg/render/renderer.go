package render

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"

	"github.com/goliatone/go-formfields/pkg/fieldhandler"
	"github.com/goliatone/go-formfields/pkg/model"
)

// Locales describes the locales a localized widget renders controls for.
// *locale.Manager satisfies it.
type Locales interface {
	DefaultLocale() string
	Supported() []string
}

// RenderOptions carry per-request data used to fill the widgets.
type RenderOptions struct {
	// FormID is used as the form element id; defaults to the form model id.
	FormID string
	// Namespace prefixes every input name, matching the binder namespace.
	Namespace string
	// Values pre-populates controls, keyed by field name.
	Values map[string]any
	// Errors surfaces validation messages keyed by field name.
	Errors map[string][]string
	// Locales overrides the locales rendered for localized fields.
	Locales []string
	// Hidden lists extra hidden inputs such as CSRF tokens.
	Hidden []HiddenField
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	newID     func() string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/form.tmpl and templates/field.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithIDGenerator replaces the random suffix appended to element ids.
func WithIDGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// Renderer produces HTML for a form model, rendering localized fields as one
// control per locale. Control values come from each field handler's
// ParamValue so the markup posts back exactly what the binder decodes.
type Renderer struct {
	registry *fieldhandler.Registry
	locales  Locales
	form     *pongo2.Template
	newID    func() string
}

// New constructs the renderer and compiles the form template.
func New(registry *fieldhandler.Registry, locales Locales, options ...Option) (*Renderer, error) {
	if registry == nil {
		return nil, fmt.Errorf("render: handler registry is required")
	}
	if locales == nil {
		return nil, fmt.Errorf("render: locales are required")
	}

	cfg := config{
		templates: TemplatesFS(),
		newID: func() string {
			return uuid.NewString()[:8]
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	set := pongo2.NewSet("formfields", pongo2.NewFSLoader(cfg.templates))
	tpl, err := set.FromFile(formTemplate)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", formTemplate, err)
	}

	return &Renderer{
		registry: registry,
		locales:  locales,
		form:     tpl,
		newID:    cfg.newID,
	}, nil
}

// ContentType is the media type of the rendered output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML form for form.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := make([]map[string]any, 0, len(form.Fields))
	for _, field := range form.Fields {
		data, err := r.fieldData(field, opts)
		if err != nil {
			return nil, err
		}
		fields = append(fields, data)
	}

	hidden := make([]map[string]any, 0, len(opts.Hidden))
	for _, h := range SortedHiddenFields(opts.Hidden...) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	formID := strings.TrimSpace(opts.FormID)
	if formID == "" {
		formID = form.ID
	}

	out, err := r.form.ExecuteBytes(pongo2.Context{
		"form_id":       formID,
		"fields":        fields,
		"hidden_fields": hidden,
	})
	if err != nil {
		return nil, fmt.Errorf("render: execute form %q: %w", form.ID, err)
	}
	return out, nil
}

func (r *Renderer) fieldData(field model.Field, opts RenderOptions) (map[string]any, error) {
	handler, err := r.registry.HandlerFor(field, "")
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	inputName := field.InputName(opts.Namespace)
	params := map[string][]string{}
	if value, ok := opts.Values[field.Name]; ok {
		params, err = handler.ParamValue(inputName, value, field.Pattern)
		if err != nil {
			return nil, fmt.Errorf("render: field %q: %w", field.Name, err)
		}
	}

	id := inputName + "-" + r.newID()
	data := map[string]any{
		"id":          id,
		"name":        inputName,
		"type":        string(field.Type),
		"label":       field.DisplayLabel(),
		"placeholder": field.Placeholder,
		"description": field.Description,
		"required":    field.Required,
		"errors":      opts.Errors[field.Name],
	}

	if !field.Localized() {
		value := first(params[inputName])
		data["value"] = value
		switch field.Type {
		case model.FieldTypeInteger, model.FieldTypeNumber:
			data["input_type"] = "number"
		case model.FieldTypeBoolean:
			data["input_type"] = "checkbox"
			data["value"] = "on"
			data["checked"] = value == "true"
		default:
			data["input_type"] = "text"
		}
		return data, nil
	}

	defaultLocale := r.locales.DefaultLocale()
	controls := make([]map[string]any, 0)
	for _, loc := range r.controlLocales(inputName, params, opts.Locales) {
		name := inputName + model.InputSeparator + loc
		controls = append(controls, map[string]any{
			"id":       id + "-" + loc,
			"name":     name,
			"locale":   loc,
			"value":    first(params[name]),
			"required": field.Required && loc == defaultLocale,
		})
	}
	data["localized"] = true
	data["textarea"] = field.Type == model.FieldTypeI18nTextArea
	data["default_locale"] = defaultLocale
	data["controls"] = controls
	return data, nil
}

// controlLocales lists the configured locales followed by any extra locale
// carried by the current value, so stored translations are never dropped.
func (r *Renderer) controlLocales(inputName string, params map[string][]string, override []string) []string {
	base := override
	if len(base) == 0 {
		base = r.locales.Supported()
	}

	seen := make(map[string]struct{}, len(base))
	out := make([]string, 0, len(base))
	for _, loc := range base {
		if _, ok := seen[loc]; ok || loc == "" {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}

	prefix := inputName + model.InputSeparator
	var extra []string
	for key := range params {
		if len(key) <= len(prefix) || !strings.HasPrefix(key, prefix) {
			continue
		}
		loc := key[len(prefix):]
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		extra = append(extra, loc)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
