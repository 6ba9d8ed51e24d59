package binding_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfields/pkg/binding"
	"github.com/goliatone/go-formfields/pkg/fieldhandler"
	"github.com/goliatone/go-formfields/pkg/i18ntext"
	"github.com/goliatone/go-formfields/pkg/locale"
	"github.com/goliatone/go-formfields/pkg/model"
)

var articleForm = model.FormModel{
	ID: "article",
	Fields: []model.Field{
		{Name: "title", Label: "Title", Type: model.FieldTypeI18nText, Required: true},
		{Name: "body", Type: model.FieldTypeI18nTextArea},
		{Name: "views", Type: model.FieldTypeInteger},
	},
}

func newBinder(t *testing.T, opts ...binding.Option) *binding.Binder {
	t.Helper()

	manager, err := locale.NewManager("en", "fr")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	messages, err := locale.NewMessages("en")
	if err != nil {
		t.Fatalf("new messages: %v", err)
	}
	registry := fieldhandler.NewDefaultRegistry(manager, nil)
	base := []binding.Option{binding.WithMessages(messages), binding.WithNegotiator(manager)}
	return binding.NewBinder(registry, manager, append(base, opts...)...)
}

func TestBinder_BindDecodesFields(t *testing.T) {
	b := newBinder(t)
	params := map[string][]string{
		"title_en": {"Hello"},
		"title_fr": {"Bonjour"},
		"body":     {},
		"views":    {"12"},
	}

	values, err := b.Bind(context.Background(), articleForm, binding.Submission{Params: params})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	title, ok := values["title"].(*i18ntext.Set)
	if !ok {
		t.Fatalf("expected title set, got %T", values["title"])
	}
	if diff := cmp.Diff(map[string]string{"en": "Hello", "fr": "Bonjour"}, title.Map()); diff != "" {
		t.Fatalf("title mismatch (-want +got):\n%s", diff)
	}
	if body, present := values["body"]; !present || body != nil {
		t.Fatalf("cleared body should be bound as nil, got %#v (present %v)", body, present)
	}
	if got := values["views"]; got != int64(12) {
		t.Fatalf("expected views=12, got %#v", got)
	}
}

func TestBinder_BindReportsRequiredInLocale(t *testing.T) {
	b := newBinder(t)
	params := map[string][]string{
		"title_en": {""},
		"title_fr": {"Bonjour"},
	}

	_, err := b.Bind(context.Background(), articleForm, binding.Submission{Params: params, Locale: "fr"})
	verrs, ok := binding.AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	want := binding.ValidationErrors{"title": {"Title est obligatoire"}}
	if diff := cmp.Diff(want, verrs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBinder_BindReportsInvalidValues(t *testing.T) {
	b := newBinder(t)
	params := map[string][]string{
		"title_en": {"Hello"},
		"views":    {"lots"},
	}

	values, err := b.Bind(context.Background(), articleForm, binding.Submission{Params: params})
	verrs, ok := binding.AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if diff := cmp.Diff(binding.ValidationErrors{"views": {"views has an invalid value"}}, verrs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if _, ok := values["title"]; !ok {
		t.Fatalf("valid fields should still be returned")
	}
	if !strings.Contains(err.Error(), "views: views has an invalid value") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestBinder_BindUnknownTypeAborts(t *testing.T) {
	b := newBinder(t)
	form := model.FormModel{ID: "x", Fields: []model.Field{{Name: "when", Type: "date"}}}

	_, err := b.Bind(context.Background(), form, binding.Submission{})
	if !errors.Is(err, fieldhandler.ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler, got %v", err)
	}
}

func TestBinder_BindHonoursContext(t *testing.T) {
	b := newBinder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Bind(ctx, articleForm, binding.Submission{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBinder_BindRequestNegotiatesLocale(t *testing.T) {
	b := newBinder(t, binding.WithNamespace("article"))
	form := url.Values{"article_title_en": {""}}
	req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept-Language", "fr-CA,fr;q=0.9")

	_, err := b.BindRequest(req, articleForm)
	verrs, ok := binding.AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if diff := cmp.Diff([]string{"Title est obligatoire"}, verrs["title"]); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestBinder_EncodeRoundTrip(t *testing.T) {
	b := newBinder(t)
	title := i18ntext.NewSet(
		i18ntext.Entry{Locale: "en", Value: "Hello"},
		i18ntext.Entry{Locale: "fr", Value: "Bonjour"},
	)

	params, err := b.Encode(articleForm, map[string]any{"title": title, "views": int64(3), "body": nil})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := url.Values{
		"title_en": {"Hello"},
		"title_fr": {"Bonjour"},
		"title":    {},
		"views":    {"3"},
	}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}

	values, err := b.Bind(context.Background(), articleForm, binding.Submission{Params: params})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if got := values["title"].(*i18ntext.Set); !got.Equal(title) {
		t.Fatalf("round trip mismatch: %s vs %s", got, title)
	}
}

func TestCleared(t *testing.T) {
	cases := []struct {
		name   string
		params map[string][]string
		want   bool
	}{
		{name: "marker only", params: map[string][]string{"title": {}}, want: true},
		{name: "rendered and emptied", params: map[string][]string{"title": {""}, "title_en": {""}, "title_fr": {""}}, want: true},
		{name: "marker with entries", params: map[string][]string{"title": {}, "title_en": {"x"}}, want: false},
		{name: "one locale kept", params: map[string][]string{"title": {""}, "title_en": {""}, "title_fr": {"Salut"}}, want: false},
		{name: "never rendered", params: map[string][]string{"other": {"x"}, "title_en": {""}}, want: false},
	}
	for _, tc := range cases {
		if got := binding.Cleared(tc.params, "title"); got != tc.want {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestBinder_BindDistinguishesClearedFromAbsent(t *testing.T) {
	b := newBinder(t)
	form := model.FormModel{ID: "article", Fields: []model.Field{
		{Name: "title", Type: model.FieldTypeI18nText},
		{Name: "body", Type: model.FieldTypeI18nTextArea},
	}}
	// What a browser posts for a rendered title whose inputs were emptied.
	params, err := url.ParseQuery("title=&title_en=&title_fr=")
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	values, err := b.Bind(context.Background(), form, binding.Submission{Params: params})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if title, present := values["title"]; !present || title != nil {
		t.Fatalf("cleared title should be bound as nil, got %#v (present %v)", title, present)
	}
	if _, present := values["body"]; present {
		t.Fatalf("body was not posted and should be absent")
	}
}

func TestBinder_BindAppliesValidationRules(t *testing.T) {
	b := newBinder(t)
	form := model.FormModel{ID: "article", Fields: []model.Field{
		{Name: "title", Label: "Title", Type: model.FieldTypeI18nText, Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "3"}},
			{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "8"}},
		}},
		{Name: "slug", Label: "Slug", Type: model.FieldTypeString, Validations: []model.ValidationRule{
			{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": `^[a-z-]+$`}},
		}},
	}}
	params := map[string][]string{
		"title_en": {"Hi"},
		"title_fr": {"Très très long"},
		"title_es": {""},
		"slug":     {"Not A Slug"},
	}

	values, err := b.Bind(context.Background(), form, binding.Submission{Params: params})
	verrs, ok := binding.AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	want := binding.ValidationErrors{
		"title": {
			"Title (en) must be at least 3 characters",
			"Title (fr) must be at most 8 characters",
		},
		"slug": {"Slug does not match the expected format"},
	}
	if diff := cmp.Diff(want, verrs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if _, ok := values["title"]; !ok {
		t.Fatalf("rule failures should still return the decoded value")
	}

	_, err = b.Bind(context.Background(), form, binding.Submission{Params: map[string][]string{
		"title_en": {"Été"},
		"slug":     {"ok-slug"},
	}, Locale: "fr"})
	if err != nil {
		t.Fatalf("expected valid submission, got %v", err)
	}
}

func TestBinder_BindLocalizesRuleMessages(t *testing.T) {
	b := newBinder(t)
	form := model.FormModel{ID: "article", Fields: []model.Field{
		{Name: "title", Label: "Titre", Type: model.FieldTypeI18nText, Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "5"}},
		}},
	}}

	_, err := b.Bind(context.Background(), form, binding.Submission{
		Params: map[string][]string{"title_fr": {"Oui"}},
		Locale: "fr",
	})
	verrs, ok := binding.AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if diff := cmp.Diff([]string{"Titre (fr) doit contenir au moins 5 caractères"}, verrs["title"]); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}
