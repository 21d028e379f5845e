package storefront

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	sf "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/i18n"
	"github.com/goliatone/go-storefront/pkg/params"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/templates"
	"github.com/goliatone/go-storefront/pkg/view"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

var errNotConfigured = errors.New("storefront: factory and renderer are required")

// route describes one client endpoint.
type route struct {
	clientPath string
	methods    []string
	cacheTag   string
}

var (
	basketRoute  = route{clientPath: sf.BasketPath, methods: []string{http.MethodGet, http.MethodHead, http.MethodPost}}
	addressRoute = route{clientPath: sf.AddressPath, methods: []string{http.MethodGet, http.MethodHead, http.MethodPost}}
	stockRoute   = route{clientPath: sf.StockPath, methods: []string{http.MethodGet, http.MethodHead}, cacheTag: "stock"}
)

// BasketHandler serves the basket client.
func BasketHandler(fns ...OptionFn) http.Handler {
	return handlerFor(basketRoute, NewOptions(fns...))
}

// AddressHandler serves the checkout address client.
func AddressHandler(fns ...OptionFn) http.Handler {
	return handlerFor(addressRoute, NewOptions(fns...))
}

// StockHandler serves the catalog stock client.
func StockHandler(fns ...OptionFn) http.Handler {
	return handlerFor(stockRoute, NewOptions(fns...))
}

func handlerFor(rt route, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if !allowed(rt.methods, r.Method) {
			w.Header().Set("Allow", strings.Join(rt.methods, ", "))
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}
		if opts.Factory == nil || opts.Renderer == nil {
			opts.Logger.Error("storefront handler not configured", zap.Error(errNotConfigured))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		sessionID := sessionCookie(r, opts.SessionCookie)
		sessionID, session := opts.Sessions.Open(sessionID)
		http.SetCookie(w, &http.Cookie{
			Name:     opts.SessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		lang := negotiateLanguage(r, opts)
		cacheKey := ""
		if rt.cacheTag != "" && opts.Cache != nil && r.Method != http.MethodPost {
			cacheKey = rt.cacheTag + "|" + lang + "|" + r.URL.RawQuery
			if page, ok := opts.Cache.Get(cacheKey); ok {
				writeHTML(w, r, page)
				return
			}
		}

		page, err := render(r.Context(), rt, opts, r, sessionID, session, lang)
		if err != nil {
			opts.Logger.Error("storefront render failed",
				zap.String("client", rt.clientPath),
				zap.Error(err),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if cacheKey != "" {
			opts.Cache.Set(cacheKey, page, rt.cacheTag)
		}
		writeHTML(w, r, page)
	})
}

func render(ctx context.Context, rt route, opts Options, r *http.Request, sessionID string, session storectx.Session, lang string) (string, error) {
	translator := i18n.Passthrough
	if opts.Translations != nil {
		translator = opts.Translations.For(lang)
	}
	userID := ""
	if opts.User != nil {
		userID = opts.User(r)
	}

	sc := &storectx.Context{
		Config:  opts.Config,
		Logger:  opts.Logger.With(zap.String("session", sessionID)),
		I18n:    translator,
		Session: session,
		Locale: storectx.Locale{
			Site:       opts.Site,
			LanguageID: lang,
			CurrencyID: opts.Currency,
		},
		UserID: userID,
		Controllers: frontend.Controllers{
			Basket:   opts.Collaborators.Shop.Basket(sessionID),
			Product:  opts.Collaborators.Products,
			Customer: opts.Collaborators.Customers,
			Stock:    opts.Collaborators.Stock,
			Locale:   opts.Collaborators.Locales,
		},
	}
	if opts.Cache != nil {
		sc.Cache = opts.Cache
	}

	globals := opts.Theme.Globals()
	v := view.New(
		view.WithParams(params.Parse(r.Form)),
		view.WithConfig(opts.Config),
		view.WithRenderer(opts.Renderer),
		view.WithTranslator(translator),
		view.WithURLBuilder(routeURLs{opts: opts}),
		view.WithTemplateResolver(opts.Theme.Template),
		view.WithGlobals(globals),
	)

	page, err := sf.RenderClient(ctx, opts.Factory, sc, v, rt.clientPath)
	if err != nil {
		return "", err
	}

	data := map[string]any{
		"header":   page.Header,
		"body":     page.Body,
		"language": lang,
	}
	for key, value := range globals {
		data[key] = value
	}
	return opts.Renderer.RenderTemplate(opts.Theme.Template(templates.Page), data)
}

func negotiateLanguage(r *http.Request, opts Options) string {
	if requested := strings.TrimSpace(r.URL.Query().Get(opts.LocaleParam)); requested != "" {
		if tag, err := language.Parse(requested); err == nil {
			base, _ := tag.Base()
			return base.String()
		}
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err == nil && len(tags) > 0 {
		base, _ := tags[0].Base()
		return base.String()
	}
	return opts.Language
}

func sessionCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func allowed(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func writeHTML(w http.ResponseWriter, r *http.Request, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(page))
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
