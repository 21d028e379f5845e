package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Component wraps the client handlers, their configuration and routing
// helpers.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// BasketHandler returns the basket handler.
func (c *Component) BasketHandler() http.Handler {
	return handlerFor(basketRoute, c.Options())
}

// AddressHandler returns the checkout address handler.
func (c *Component) AddressHandler() http.Handler {
	return handlerFor(addressRoute, c.Options())
}

// StockHandler returns the stock handler.
func (c *Component) StockHandler() http.Handler {
	return handlerFor(stockRoute, c.Options())
}

// RegisterRoutes registers the handlers under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.Options())
}

// Router returns a chi router serving the component under basePath.
func (c *Component) Router(basePath string) (chi.Router, error) {
	return NewRouter(basePath, c.Options())
}

// Render renders one client page outside of an HTTP server. form carries the
// request parameters and sessionID selects an open session; an unknown id
// starts a new one.
func (c *Component) Render(ctx context.Context, clientPath string, form url.Values, sessionID, lang string) (string, error) {
	opts := c.Options()
	if opts.Factory == nil || opts.Renderer == nil {
		return "", errNotConfigured
	}

	var rt route
	switch strings.Trim(strings.TrimSpace(clientPath), "/") {
	case basketRoute.clientPath:
		rt = basketRoute
	case addressRoute.clientPath:
		rt = addressRoute
	case stockRoute.clientPath:
		rt = stockRoute
	default:
		return "", fmt.Errorf("storefront: unknown client %q", clientPath)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return "", err
	}
	r.Form = form
	if r.Form == nil {
		r.Form = url.Values{}
	}
	if strings.TrimSpace(lang) == "" {
		lang = opts.Language
	}

	sessionID, session := opts.Sessions.Open(sessionID)
	return render(ctx, rt, opts, r, sessionID, session, lang)
}
