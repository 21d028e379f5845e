// Package template defines the template engine seam used by the storefront
// views. Clients only ever call RenderTemplate with a logical template name
// such as "basket/standard/body-standard"; the engine resolves the file.
package template
