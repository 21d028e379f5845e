package template

import (
	"io"
)

// TemplateRenderer is the contract a template engine satisfies. Names are
// logical template paths; the engine appends its extension and resolves the
// file against its loaders.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
