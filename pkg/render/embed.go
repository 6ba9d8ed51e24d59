package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// formTemplate includes field.tmpl, which pongo2 resolves next to it.
const formTemplate = "templates/form.tmpl"

// TemplatesFS exposes the embedded template bundle so callers can copy and
// customise it before passing it back through WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
