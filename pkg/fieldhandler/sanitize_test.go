package fieldhandler_test

import (
	"testing"

	"github.com/goliatone/go-formfields/pkg/fieldhandler"
)

func TestSanitizers_KeepPlainText(t *testing.T) {
	cases := []struct {
		name      string
		sanitizer fieldhandler.Sanitizer
		input     string
		want      string
	}{
		{name: "rich ampersand", sanitizer: fieldhandler.RichTextSanitizer(), input: "Tom & Jerry: 1 < 2", want: "Tom & Jerry: 1 < 2"},
		{name: "rich markup", sanitizer: fieldhandler.RichTextSanitizer(), input: `<b>Tom & Jerry</b><script>x()</script>`, want: "<b>Tom & Jerry</b>"},
		{name: "plain ampersand", sanitizer: fieldhandler.PlainTextSanitizer(), input: "Fish & Chips", want: "Fish & Chips"},
		{name: "plain markup", sanitizer: fieldhandler.PlainTextSanitizer(), input: `<i>"quoted"</i>`, want: `"quoted"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.sanitizer.Sanitize(tc.input)
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
			if again := tc.sanitizer.Sanitize(got); again != got {
				t.Fatalf("sanitizing twice changed %q to %q", got, again)
			}
		})
	}
}

func TestPolicySanitizer_NilPolicy(t *testing.T) {
	if got := (fieldhandler.PolicySanitizer{}).Sanitize("a & b"); got != "a & b" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
