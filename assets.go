package storefront

import (
	"embed"
	"io/fs"
)

//go:embed assets/classic/*.css
var embeddedAssets embed.FS

// AssetsFS exposes the theme stylesheets so applications can serve them
// next to the rendered pages.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(storefront.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
