// Package templates bundles the default storefront templates. Names follow
// the client paths, e.g. "basket/standard/body-standard".
package templates

import (
	"embed"
	"io/fs"
)

//go:embed basket catalog checkout common page
var embedded embed.FS

// FS exposes the embedded template bundle.
func FS() fs.FS {
	return embedded
}

// Page is the layout wrapping rendered client output.
const Page = "page/layout"
