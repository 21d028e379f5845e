package view

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/i18n"
	"github.com/goliatone/go-storefront/pkg/params"
	"github.com/goliatone/go-storefront/pkg/render/template"
)

// Well known view keys shared by several clients.
const (
	KeyErrorList  = "standardErrorList"
	KeyErrorCodes = "standardErrorCodes"
	KeyStepActive = "standardStepActive"
)

// ErrNoRenderer is returned by Render when the view has no template engine.
var ErrNoRenderer = errors.New("view: no template renderer configured")

// View is the mutable view model of one request.
type View struct {
	keys   []string
	values map[string]any

	params     params.Params
	config     config.Config
	renderer   template.TemplateRenderer
	translator i18n.Translator
	urls       URLBuilder
	templates  func(string) string
	globals    map[string]any
	populated  map[string]bool
}

// Option configures a View.
type Option func(*View)

// WithParams sets the request parameters.
func WithParams(p params.Params) Option {
	return func(v *View) {
		v.params = p
	}
}

// WithConfig sets the configuration templates and clients read from.
func WithConfig(cfg config.Config) Option {
	return func(v *View) {
		if cfg != nil {
			v.config = cfg
		}
	}
}

// WithRenderer sets the template engine.
func WithRenderer(r template.TemplateRenderer) Option {
	return func(v *View) {
		v.renderer = r
	}
}

// WithTranslator sets the translator exposed as the translate helper.
func WithTranslator(t i18n.Translator) Option {
	return func(v *View) {
		if t != nil {
			v.translator = t
		}
	}
}

// WithURLBuilder replaces the default URL builder.
func WithURLBuilder(b URLBuilder) Option {
	return func(v *View) {
		if b != nil {
			v.urls = b
		}
	}
}

// WithTemplateResolver maps logical template names before rendering, used for
// theme overrides.
func WithTemplateResolver(fn func(string) string) Option {
	return func(v *View) {
		v.templates = fn
	}
}

// WithGlobals adds values available to every render of this view.
func WithGlobals(globals map[string]any) Option {
	return func(v *View) {
		if v.globals == nil {
			v.globals = make(map[string]any, len(globals))
		}
		for key, value := range globals {
			v.globals[key] = value
		}
	}
}

// New returns an empty view.
func New(options ...Option) *View {
	v := &View{
		values:     make(map[string]any),
		params:     params.FromMap(nil),
		config:     config.FromMap(nil),
		translator: i18n.Passthrough,
		urls:       DefaultURLBuilder{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Set assigns key. The first assignment fixes the key's position; later
// assignments replace the value in place.
func (v *View) Set(key string, value any) {
	if _, ok := v.values[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.values[key] = value
}

// Get returns the value of key.
func (v *View) Get(key string) (any, bool) {
	value, ok := v.values[key]
	return value, ok
}

// Value returns the value of key or fallback.
func (v *View) Value(key string, fallback any) any {
	if value, ok := v.values[key]; ok && value != nil {
		return value
	}
	return fallback
}

// Has reports whether key is set.
func (v *View) Has(key string) bool {
	_, ok := v.values[key]
	return ok
}

// Delete removes key.
func (v *View) Delete(key string) {
	if _, ok := v.values[key]; !ok {
		return
	}
	delete(v.values, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (v *View) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Strings returns a string list value.
func (v *View) Strings(key string) []string {
	switch value := v.values[key].(type) {
	case []string:
		return append([]string(nil), value...)
	case nil:
		return nil
	default:
		return params.ToStrings(value)
	}
}

// String returns a scalar string value or fallback.
func (v *View) String(key, fallback string) string {
	value, ok := v.values[key]
	if !ok || value == nil {
		return fallback
	}
	if s, isString := value.(string); isString {
		return s
	}
	return fmt.Sprint(value)
}

// Append merges msgs into the string list at key. Messages are trimmed and
// empty ones dropped; existing entries keep their order.
func (v *View) Append(key string, msgs ...string) {
	list := v.Strings(key)
	for _, msg := range msgs {
		if msg = strings.TrimSpace(msg); msg != "" {
			list = append(list, msg)
		}
	}
	if list == nil {
		list = []string{}
	}
	v.Set(key, list)
}

// MarkPopulated records that the client at path added its data to this view.
func (v *View) MarkPopulated(path string) {
	if v.populated == nil {
		v.populated = make(map[string]bool)
	}
	v.populated[path] = true
}

// IsPopulated reports whether the client at path already added its data.
func (v *View) IsPopulated(path string) bool {
	return v.populated[path]
}

// Errors returns the collected error messages.
func (v *View) Errors() []string {
	return v.Strings(KeyErrorList)
}

// Data returns a copy of the values.
func (v *View) Data() map[string]any {
	out := make(map[string]any, len(v.values))
	for key, value := range v.values {
		out[key] = value
	}
	return out
}

// Param returns a request parameter as string.
func (v *View) Param(name, fallback string) string {
	return v.params.String(name, fallback)
}

// Params returns the request parameters.
func (v *View) Params() params.Params {
	return v.params
}

// Config returns a configuration value as string.
func (v *View) Config(key, fallback string) string {
	return v.config.String(key, fallback)
}

// Configuration returns the underlying configuration.
func (v *View) Configuration() config.Config {
	return v.config
}

// Translate translates msg in domain.
func (v *View) Translate(domain, msg string, args ...any) string {
	return v.translator.Translate(domain, msg, args...)
}

// URL builds a link through the configured URL builder.
func (v *View) URL(target, controller, action string, query map[string]any, cfg map[string]any) string {
	return v.urls.URL(target, controller, action, query, cfg)
}

// Render renders the named template with the view values. The logical name
// is mapped through the template resolver first.
func (v *View) Render(name string) (string, error) {
	if v.renderer == nil {
		return "", ErrNoRenderer
	}
	if v.templates != nil {
		name = v.templates(name)
	}
	out, err := v.renderer.RenderTemplate(name, v.renderData())
	if err != nil {
		return "", fmt.Errorf("view: render %s: %w", name, err)
	}
	return out, nil
}

func (v *View) renderData() map[string]any {
	data := make(map[string]any, len(v.values)+len(v.globals)+4)
	for key, value := range v.globals {
		data[key] = value
	}
	for key, value := range i18n.TemplateFuncs(v.translator) {
		data[key] = value
	}
	data["config"] = func(key, fallback string) string {
		return v.config.String(key, fallback)
	}
	data["param"] = func(name string) string {
		return v.params.String(name, "")
	}
	data["url"] = func(target, controller, action string) string {
		return v.urls.URL(target, controller, action, nil, nil)
	}
	for key, value := range v.values {
		data[key] = value
	}
	return data
}

// URLBuilder turns routing triples into links.
type URLBuilder interface {
	URL(target, controller, action string, query map[string]any, cfg map[string]any) string
}

// DefaultURLBuilder produces "/<target>/<controller>/<action>?<query>"
// dropping empty segments. A "base" entry in cfg prefixes the path.
type DefaultURLBuilder struct {
	Base string
}

func (b DefaultURLBuilder) URL(target, controller, action string, query map[string]any, cfg map[string]any) string {
	base := b.Base
	if raw, ok := cfg["base"]; ok {
		base = fmt.Sprint(raw)
	}

	segments := []string{strings.TrimRight(base, "/")}
	for _, segment := range []string{target, controller, action} {
		if segment = strings.Trim(strings.TrimSpace(segment), "/"); segment != "" {
			segments = append(segments, url.PathEscape(segment))
		}
	}
	path := strings.Join(segments, "/")
	if path == "" {
		path = "/"
	}

	if len(query) == 0 {
		return path
	}
	values := url.Values{}
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, item := range params.ToStrings(query[key]) {
			values.Add(key, item)
		}
	}
	return path + "?" + values.Encode()
}
