package storefront

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/i18n"
	"github.com/goliatone/go-storefront/pkg/memshop"
	"github.com/goliatone/go-storefront/pkg/render/template"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/theme"
)

type GuardFunc func(r *http.Request) error

// UserFunc returns the logged in user of r, or "".
type UserFunc func(r *http.Request) string

// Collaborators are the frontend controllers shared by every request.
type Collaborators struct {
	Shop      *memshop.Shop
	Products  frontend.ProductController
	Customers frontend.CustomerController
	Stock     frontend.StockController
	Locales   frontend.LocaleManager
}

type Options struct {
	BasePath      string
	BasketPath    string
	AddressPath   string
	StockPath     string
	SessionCookie string
	LocaleParam   string
	Language      string
	Currency      string
	Site          storectx.Site
	Guard         GuardFunc
	User          UserFunc

	Factory       *client.Factory
	Renderer      template.TemplateRenderer
	Config        config.Config
	Translations  *i18n.Bundle
	Logger        *zap.Logger
	Theme         theme.Resolved
	Collaborators Collaborators
	Sessions      *memshop.Sessions
	Cache         *memshop.Cache
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		BasketPath:    "/basket",
		AddressPath:   "/checkout/address",
		StockPath:     "/stock",
		SessionCookie: "storefront_session",
		LocaleParam:   "locale",
		Language:      "en",
		Currency:      "EUR",
		Site:          storectx.Site{Code: "default", Label: "Default"},
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if opts.BasketPath == "" {
		opts.BasketPath = defaults.BasketPath
	}
	if opts.AddressPath == "" {
		opts.AddressPath = defaults.AddressPath
	}
	if opts.StockPath == "" {
		opts.StockPath = defaults.StockPath
	}
	if opts.SessionCookie == "" {
		opts.SessionCookie = defaults.SessionCookie
	}
	if opts.LocaleParam == "" {
		opts.LocaleParam = defaults.LocaleParam
	}
	if opts.Language == "" {
		opts.Language = defaults.Language
	}
	if opts.Currency == "" {
		opts.Currency = defaults.Currency
	}
	if opts.Site.Code == "" {
		opts.Site = defaults.Site
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Config == nil {
		opts.Config = config.FromMap(nil)
	}
	if opts.Collaborators.Shop == nil {
		opts.Collaborators.Shop = memshop.NewShop(memshop.WithCurrency(opts.Currency))
	}
	if opts.Sessions == nil {
		opts.Sessions = memshop.NewSessions()
		opts.Sessions.OnExpire(opts.Collaborators.Shop.Forget)
	}
	return opts
}

func WithRoutePaths(basket, address, stock string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BasketPath = basket
		o.AddressPath = address
		o.StockPath = stock
	}
}

func WithSessionCookie(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionCookie = name
	}
}

func WithLocale(site storectx.Site, language, currency string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Site = site
		o.Language = language
		o.Currency = currency
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithUser(fn UserFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.User = fn
	}
}

func WithFactory(f *client.Factory) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Factory = f
	}
}

func WithRenderer(r template.TemplateRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = r
	}
}

func WithConfig(cfg config.Config) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Config = cfg
	}
}

func WithTranslations(bundle *i18n.Bundle) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Translations = bundle
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithTheme(resolved theme.Resolved) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = resolved
	}
}

func WithCollaborators(c Collaborators) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Collaborators = c
	}
}

func WithSessions(s *memshop.Sessions) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Sessions = s
	}
}

func WithCache(c *memshop.Cache) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Cache = c
	}
}
