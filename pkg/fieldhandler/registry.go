package fieldhandler

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formfields/pkg/locale"
	"github.com/goliatone/go-formfields/pkg/model"
)

// Registry routes field types to the handler that declared them. Lookups are
// safe for concurrent use; registration normally happens once at start-up.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   zerolog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger attaches a logger used for registration and routing diagnostics.
func WithLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// NewDefaultRegistry registers the plain TextHandler and an I18nTextHandler
// configured with resolver and i18nOpts.
func NewDefaultRegistry(resolver locale.Resolver, i18nOpts []I18nOption, opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)
	r.MustRegister(TextHandler{})
	r.MustRegister(NewI18nTextHandler(resolver, i18nOpts...))
	return r
}

// Register adds handler under each of its compatible types. Registration is
// all-or-nothing: a type already claimed by another handler fails the whole
// call.
func (r *Registry) Register(handler Handler) error {
	if handler == nil {
		return fmt.Errorf("fieldhandler: handler is required")
	}
	types := handler.CompatibleTypes()
	if len(types) == 0 {
		return fmt.Errorf("fieldhandler: handler %T declares no compatible types", handler)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		name := strings.TrimSpace(t)
		if name == "" {
			return fmt.Errorf("fieldhandler: handler %T declares an empty type", handler)
		}
		if _, exists := r.handlers[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateType, name)
		}
	}
	for _, t := range types {
		r.handlers[strings.TrimSpace(t)] = handler
	}
	r.logger.Debug().Strs("types", types).Str("handler", fmt.Sprintf("%T", handler)).Msg("field handler registered")
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(handler Handler) {
	if err := r.Register(handler); err != nil {
		panic(err)
	}
}

// Lookup returns the handler serving typeName.
func (r *Registry) Lookup(typeName string) (Handler, error) {
	r.mu.RLock()
	handler, ok := r.handlers[strings.TrimSpace(typeName)]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug().Str("type", typeName).Msg("no field handler for type")
		return nil, fmt.Errorf("%w for type %q", ErrNoHandler, typeName)
	}
	return handler, nil
}

// HandlerFor resolves the handler for field and checks that it accepts the
// property the field is bound to. An empty property defaults to the field
// name.
func (r *Registry) HandlerFor(field model.Field, property string) (Handler, error) {
	handler, err := r.Lookup(string(field.Type))
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", field.Name, err)
	}
	if property == "" {
		property = field.Name
	}
	if !handler.AcceptsProperty(property) {
		return nil, fmt.Errorf("%w: %T rejects property %q", ErrNoHandler, handler, property)
	}
	return handler, nil
}

// Has reports whether a handler serves typeName.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.handlers[strings.TrimSpace(typeName)]
	return ok
}

// Types returns the sorted list of routed types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
