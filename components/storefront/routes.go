package storefront

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-storefront/pkg/params"
	"github.com/goliatone/go-storefront/pkg/view"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux and chi.Router.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes registers the client handlers under basePath on mux and
// returns the mounted patterns.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers the handlers using a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("storefront: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	opts.BasePath = basePath

	var patterns []string
	for _, entry := range []struct {
		path string
		rt   route
	}{
		{opts.BasketPath, basketRoute},
		{opts.AddressPath, addressRoute},
		{opts.StockPath, stockRoute},
	} {
		pattern := mountPath(basePath, entry.path)
		mux.Handle(pattern, handlerFor(entry.rt, opts))
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// NewRouter returns a chi router serving the clients under basePath.
func NewRouter(basePath string, opts Options) (chi.Router, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if _, err := RegisterRoutesWithOptions(r, basePath, opts); err != nil {
		return nil, err
	}
	return r, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}

// routeURLs maps the link targets used by the templates onto the mounted
// routes. Unknown targets fall back to view.DefaultURLBuilder.
type routeURLs struct {
	opts Options
}

func (u routeURLs) URL(target, controller, action string, query map[string]any, cfg map[string]any) string {
	var path string
	switch strings.TrimSpace(target) {
	case "basket":
		path = u.opts.BasketPath
	case "checkout":
		path = u.opts.AddressPath
	case "stock":
		path = u.opts.StockPath
	default:
		return view.DefaultURLBuilder{Base: u.opts.BasePath}.URL(target, controller, action, query, cfg)
	}
	path = mountPath(u.opts.BasePath, path)
	if len(query) == 0 {
		return path
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	values := url.Values{}
	for _, key := range keys {
		for _, item := range params.ToStrings(query[key]) {
			values.Add(key, item)
		}
	}
	return path + "?" + values.Encode()
}
