package fieldhandler_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formfields/pkg/fieldhandler"
	"github.com/goliatone/go-formfields/pkg/locale"
	"github.com/goliatone/go-formfields/pkg/model"
)

type pickyHandler struct {
	fieldhandler.TextHandler
	types []string
}

func (p pickyHandler) CompatibleTypes() []string { return p.types }

func (pickyHandler) AcceptsProperty(name string) bool { return strings.HasPrefix(name, "ok") }

func TestRegistry_DefaultRoutesTypes(t *testing.T) {
	reg := fieldhandler.NewDefaultRegistry(locale.StaticResolver("en"), nil)

	want := []string{"I18nText", "I18nTextArea", "boolean", "integer", "number", "string"}
	if diff := cmp.Diff(want, reg.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	handler, err := reg.Lookup("I18nTextArea")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, ok := handler.(*fieldhandler.I18nTextHandler); !ok {
		t.Fatalf("expected I18nTextHandler, got %T", handler)
	}

	if _, err := reg.Lookup("date"); !errors.Is(err, fieldhandler.ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler, got %v", err)
	}
}

func TestRegistry_RegisterRejectsDuplicatesAtomically(t *testing.T) {
	reg := fieldhandler.NewRegistry()
	reg.MustRegister(pickyHandler{types: []string{"color"}})

	err := reg.Register(pickyHandler{types: []string{"size", "color"}})
	if !errors.Is(err, fieldhandler.ErrDuplicateType) {
		t.Fatalf("expected ErrDuplicateType, got %v", err)
	}
	if reg.Has("size") {
		t.Fatalf("failed registration must not leave partial routes")
	}

	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
	if err := reg.Register(pickyHandler{}); err == nil {
		t.Fatalf("expected error for handler without types")
	}
}

func TestRegistry_HandlerForChecksProperty(t *testing.T) {
	reg := fieldhandler.NewRegistry()
	reg.MustRegister(pickyHandler{types: []string{"color"}})

	if _, err := reg.HandlerFor(model.Field{Name: "ok_color", Type: "color"}, ""); err != nil {
		t.Fatalf("expected handler, got %v", err)
	}
	if _, err := reg.HandlerFor(model.Field{Name: "bad", Type: "color"}, ""); !errors.Is(err, fieldhandler.ErrNoHandler) {
		t.Fatalf("expected property rejection, got %v", err)
	}
}

func TestRegistry_LogsRouting(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	reg := fieldhandler.NewRegistry(fieldhandler.WithLogger(logger))
	reg.MustRegister(fieldhandler.TextHandler{})
	_, _ = reg.Lookup("missing")

	out := buf.String()
	if !strings.Contains(out, "field handler registered") || !strings.Contains(out, "no field handler for type") {
		t.Fatalf("expected registry diagnostics, got %s", out)
	}
}
