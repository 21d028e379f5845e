package storefront

import (
	"io/fs"

	"github.com/goliatone/go-storefront/pkg/render/template/pongo"
	"github.com/goliatone/go-storefront/pkg/templates"
)

// EmbeddedTemplates exposes the built-in templates so callers can reuse or
// extend them without importing the templates package directly.
func EmbeddedTemplates() fs.FS {
	return templates.FS()
}

// NewEngine returns a pongo2 engine over the embedded templates. Files in
// dir, when given, override embedded ones of the same name.
func NewEngine(dir string, options ...pongo.Option) (*pongo.Engine, error) {
	opts := make([]pongo.Option, 0, len(options)+2)
	if dir != "" {
		opts = append(opts, pongo.WithBaseDir(dir))
	}
	opts = append(opts, pongo.WithFS(templates.FS()))
	opts = append(opts, options...)
	return pongo.New(opts...)
}
