package fieldhandler_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/pkg/fieldhandler"
	"github.com/goliatone/go-formfields/pkg/model"
)

func TestTextHandler_Value(t *testing.T) {
	h := fieldhandler.TextHandler{}
	params := map[string][]string{
		"name":    {"Ada"},
		"age":     {" 36 "},
		"ratio":   {"0.5"},
		"agree":   {"on"},
		"blank":   {"  "},
		"unset":   {},
		"invalid": {"abc"},
	}

	cases := []struct {
		input string
		typ   model.FieldType
		want  any
	}{
		{input: "name", typ: model.FieldTypeString, want: "Ada"},
		{input: "age", typ: model.FieldTypeInteger, want: int64(36)},
		{input: "ratio", typ: model.FieldTypeNumber, want: 0.5},
		{input: "agree", typ: model.FieldTypeBoolean, want: true},
		{input: "blank", typ: model.FieldTypeString, want: "  "},
		{input: "blank", typ: model.FieldTypeInteger, want: nil},
		{input: "unset", typ: model.FieldTypeBoolean, want: false},
		{input: "missing", typ: model.FieldTypeString, want: nil},
	}
	for _, tc := range cases {
		field := model.Field{Name: tc.input, Type: tc.typ}
		got, err := h.Value(field, tc.input, params, nil, "", nil)
		if err != nil {
			t.Fatalf("%s: decode: %v", tc.input, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s (%s) mismatch (-want +got):\n%s", tc.input, tc.typ, diff)
		}
	}

	_, err := h.Value(model.Field{Name: "invalid"}, "invalid", params, nil, string(model.FieldTypeInteger), nil)
	if !errors.Is(err, fieldhandler.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestTextHandler_ParamValue(t *testing.T) {
	h := fieldhandler.TextHandler{}

	got, err := h.ParamValue("price", 12.5, "%.2f")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"price": {"12.50"}}, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}

	got, err = h.ParamValue("count", int64(3), "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"count": {"3"}}, got); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}

	empty, err := h.ParamValue("count", nil, "")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty params for nil, got %v (%v)", empty, err)
	}

	if _, err := h.ParamValue("x", []int{1}, ""); !errors.Is(err, fieldhandler.ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}
}

func TestTextHandler_IsEmpty(t *testing.T) {
	h := fieldhandler.TextHandler{}
	if !h.IsEmpty(nil) || !h.IsEmpty(" ") {
		t.Fatalf("nil and blank strings should be empty")
	}
	if h.IsEmpty("x") || h.IsEmpty(false) || h.IsEmpty(int64(0)) {
		t.Fatalf("non-blank values should not be empty")
	}
}
