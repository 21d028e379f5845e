package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Translation domains used by the clients.
const (
	DomainClient     = "client"
	DomainController = "controller/frontend"
	DomainMShop      = "mshop"
	DomainCode       = "mshop/code"
)

// ErrMissingTranslation is passed to MissingHandler when a message id is not
// present in the catalog.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// Translator translates a message id within a domain. Args are applied with
// fmt.Sprintf when present.
type Translator interface {
	Translate(domain, msg string, args ...any) string
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(domain, msg string, args ...any) string

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(domain, msg string, args ...any) string {
	return fn(domain, msg, args...)
}

// MissingHandler returns the text used when a translation is missing.
type MissingHandler func(locale, domain, msg string, err error) string

func missingDefault(_, _, msg string, _ error) string {
	return msg
}

// Passthrough returns message ids unchanged.
var Passthrough Translator = TranslatorFunc(func(_ string, msg string, args ...any) string {
	return format(msg, args)
})

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// LocalesFS exposes the built-in catalogs.
func LocalesFS() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return embeddedLocales
	}
	return sub
}

// Catalog holds the messages of one locale.
type Catalog struct {
	Locale  string
	entries map[string]map[string]string
}

// Lookup returns the translation for msg in domain.
func (c *Catalog) Lookup(domain, msg string) (string, bool) {
	if c == nil {
		return "", false
	}
	messages, ok := c.entries[domain]
	if !ok {
		return "", false
	}
	value, ok := messages[msg]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(locale string, data []byte) (*Catalog, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("i18n: parse %s catalog: %w", locale, err)
	}
	if raw == nil {
		raw = map[string]map[string]string{}
	}
	return &Catalog{Locale: locale, entries: raw}, nil
}

// Option configures a Bundle.
type Option func(*Bundle)

// WithMissingHandler overrides the fallback for missing message ids.
func WithMissingHandler(fn MissingHandler) Option {
	return func(b *Bundle) {
		if fn != nil {
			b.onMissing = fn
		}
	}
}

// WithFallbackLocale sets the locale used when negotiation finds no match.
func WithFallbackLocale(locale string) Option {
	return func(b *Bundle) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			b.fallback = trimmed
		}
	}
}

// Bundle is a set of catalogs with locale negotiation.
type Bundle struct {
	mu        sync.RWMutex
	catalogs  map[string]*Catalog
	tags      []language.Tag
	names     []string
	matcher   language.Matcher
	fallback  string
	onMissing MissingHandler
}

// NewBundle builds an empty bundle.
func NewBundle(options ...Option) *Bundle {
	b := &Bundle{
		catalogs:  make(map[string]*Catalog),
		fallback:  "en",
		onMissing: missingDefault,
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Load reads every *.yaml/*.yml file in fsys root into a new bundle.
func Load(fsys fs.FS, options ...Option) (*Bundle, error) {
	b := NewBundle(options...)
	if err := b.LoadFS(fsys); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFS merges the catalogs found in fsys root. Messages already present
// for a locale are overwritten.
func (b *Bundle) LoadFS(fsys fs.FS) error {
	if fsys == nil {
		return nil
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("i18n: read catalogs: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := path.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", entry.Name(), err)
		}
		catalog, err := ParseCatalog(strings.TrimSuffix(entry.Name(), ext), data)
		if err != nil {
			return err
		}
		if err := b.Add(catalog); err != nil {
			return err
		}
	}
	return nil
}

// Add registers a catalog, merging into an existing one for the same locale.
func (b *Bundle) Add(catalog *Catalog) error {
	if catalog == nil {
		return errors.New("i18n: catalog is required")
	}
	tag, err := language.Parse(catalog.Locale)
	if err != nil {
		return fmt.Errorf("i18n: invalid locale %q: %w", catalog.Locale, err)
	}
	key := tag.String()

	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.catalogs[key]; ok {
		for domain, messages := range catalog.entries {
			if existing.entries[domain] == nil {
				existing.entries[domain] = make(map[string]string, len(messages))
			}
			for id, value := range messages {
				existing.entries[domain][id] = value
			}
		}
		return nil
	}

	catalog.Locale = key
	b.catalogs[key] = catalog
	b.names = append(b.names, key)
	sort.Strings(b.names)
	b.tags = b.tags[:0]
	for _, name := range b.names {
		b.tags = append(b.tags, language.Make(name))
	}
	b.matcher = language.NewMatcher(b.tags)
	return nil
}

// Locales lists the loaded locales.
func (b *Bundle) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.names...)
}

// For returns a Translator bound to the best matching catalog for locale.
func (b *Bundle) For(locale string) Translator {
	resolved := b.resolve(locale)
	b.mu.RLock()
	catalog := b.catalogs[resolved]
	onMissing := b.onMissing
	b.mu.RUnlock()

	return TranslatorFunc(func(domain, msg string, args ...any) string {
		if strings.TrimSpace(msg) == "" {
			return ""
		}
		if value, ok := catalog.Lookup(domain, msg); ok {
			return format(value, args)
		}
		return format(onMissing(resolved, domain, msg, ErrMissingTranslation), args)
	})
}

func (b *Bundle) resolve(locale string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.names) == 0 {
		return b.fallback
	}
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return b.fallback
	}
	_, idx, confidence := b.matcher.Match(tag)
	if confidence == language.No || idx < 0 || idx >= len(b.names) {
		return b.fallback
	}
	return b.names[idx]
}

func format(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
