package formfields

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formfields/internal/config"
	"github.com/goliatone/go-formfields/pkg/binding"
	"github.com/goliatone/go-formfields/pkg/fieldhandler"
	"github.com/goliatone/go-formfields/pkg/i18ntext"
	"github.com/goliatone/go-formfields/pkg/locale"
	"github.com/goliatone/go-formfields/pkg/model"
	"github.com/goliatone/go-formfields/pkg/render"
)

// Set aliases i18ntext.Set so callers can work with localized values from the
// top-level module.
type Set = i18ntext.Set

// Entry aliases i18ntext.Entry.
type Entry = i18ntext.Entry

// Field aliases model.Field.
type Field = model.Field

// FormModel aliases model.FormModel.
type FormModel = model.FormModel

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Runtime bundles the collaborators built from one configuration: locale
// negotiation, the message catalog, the handler registry, the binder and the
// widget renderer.
type Runtime struct {
	Locales  *locale.Manager
	Messages *locale.Messages
	Handlers *fieldhandler.Registry
	Binder   *binding.Binder
	Renderer *render.Renderer

	forms     map[string]model.FormModel
	namespace string
}

// Option configures runtime construction.
type Option func(*options)

type options struct {
	logger    zerolog.Logger
	namespace string
	renderer  []render.Option
}

// WithLogger routes diagnostics from every component to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNamespace prefixes every input name bound or rendered by the runtime.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithRendererOptions forwards options to the widget renderer.
func WithRendererOptions(opts ...render.Option) Option {
	return func(o *options) {
		o.renderer = append(o.renderer, opts...)
	}
}

// Load builds a runtime from the YAML configuration file at path.
func Load(path string, opts ...Option) (*Runtime, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return build(cfg, opts...)
}

// FromYAML builds a runtime from YAML configuration data.
func FromYAML(data []byte, opts ...Option) (*Runtime, error) {
	cfg, err := config.Parse(data, "inline")
	if err != nil {
		return nil, err
	}
	return build(cfg, opts...)
}

// Default builds a runtime for English only, with no forms registered.
func Default(opts ...Option) (*Runtime, error) {
	return build(config.Default(), opts...)
}

// Form returns a configured form model by id.
func (r *Runtime) Form(id string) (model.FormModel, error) {
	form, ok := r.forms[id]
	if !ok {
		return model.FormModel{}, fmt.Errorf("formfields: form %q not configured", id)
	}
	return form, nil
}

// FormIDs lists the configured form ids, sorted.
func (r *Runtime) FormIDs() []string {
	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render renders the configured form id, applying the runtime namespace when
// opts does not set one.
func (r *Runtime) Render(ctx context.Context, formID string, opts RenderOptions) ([]byte, error) {
	form, err := r.Form(formID)
	if err != nil {
		return nil, err
	}
	if opts.Namespace == "" {
		opts.Namespace = r.namespace
	}
	return r.Renderer.Render(ctx, form, opts)
}

func build(cfg config.Config, opts ...Option) (*Runtime, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := o.logger.With().Str("component", "formfields").Logger()

	manager, err := locale.NewManager(cfg.Locale.Default, cfg.Locale.Supported...)
	if err != nil {
		return nil, fmt.Errorf("formfields: locales: %w", err)
	}

	messages, err := locale.NewMessages(manager.DefaultLocale(), locale.WithMessagesLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("formfields: messages: %w", err)
	}
	for _, path := range cfg.Messages {
		if err := messages.LoadFile(path); err != nil {
			return nil, fmt.Errorf("formfields: %w", err)
		}
	}

	var i18nOpts []fieldhandler.I18nOption
	if cfg.Handlers.SanitizeTextArea {
		i18nOpts = append(i18nOpts, fieldhandler.WithSanitizer(fieldhandler.RichTextSanitizer(), model.FieldTypeI18nTextArea))
	}
	if cfg.Handlers.SanitizeText {
		i18nOpts = append(i18nOpts, fieldhandler.WithSanitizer(fieldhandler.PlainTextSanitizer(), model.FieldTypeI18nText))
	}
	registry := fieldhandler.NewDefaultRegistry(manager, i18nOpts, fieldhandler.WithLogger(logger))

	binder := binding.NewBinder(registry, manager,
		binding.WithMessages(messages),
		binding.WithNegotiator(manager),
		binding.WithNamespace(o.namespace),
		binding.WithLogger(logger),
	)

	renderer, err := render.New(registry, manager, o.renderer...)
	if err != nil {
		return nil, fmt.Errorf("formfields: %w", err)
	}

	forms := make(map[string]model.FormModel, len(cfg.Forms))
	for _, form := range cfg.Forms {
		forms[form.ID] = form
	}

	logger.Debug().
		Str("default_locale", manager.DefaultLocale()).
		Strs("locales", manager.Supported()).
		Int("forms", len(forms)).
		Msg("runtime configured")

	return &Runtime{
		Locales:  manager,
		Messages: messages,
		Handlers: registry,
		Binder:   binder,
		Renderer: renderer,
		forms:    forms,

		namespace: o.namespace,
	}, nil
}
