// Package theme resolves storefront theme manifests into template overrides
// and token globals for the view layer.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ErrThemeNotFound is returned when a theme name is not registered.
var ErrThemeNotFound = errors.New("theme: not found")

// Selector is a go-theme ThemeSelector over registered manifests.
type Selector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector returns a selector using defaultTheme/defaultVariant when Select
// receives empty values.
func NewSelector(defaultTheme, defaultVariant string) *Selector {
	return &Selector{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
}

// Register adds a manifest. Registering a name twice replaces the first one.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("theme: manifest name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[strings.TrimSpace(manifest.Name)] = manifest
	return nil
}

// Names lists registered themes.
func (s *Selector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named theme and variant.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, known := manifest.Variants[variant]; !known {
			return nil, fmt.Errorf("theme: %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Resolved is the flattened view of a selection.
type Resolved struct {
	Theme     string
	Variant   string
	Templates map[string]string
	Tokens    map[string]string
	AssetBase string
	Assets    map[string]string
}

// Resolve merges the variant on top of the base manifest.
func Resolve(selection *theme.Selection) Resolved {
	out := Resolved{
		Templates: map[string]string{},
		Tokens:    map[string]string{},
		Assets:    map[string]string{},
	}
	if selection == nil || selection.Manifest == nil {
		return out
	}
	manifest := selection.Manifest
	out.Theme = selection.Theme
	out.Variant = selection.Variant
	out.AssetBase = manifest.Assets.Prefix

	merge(out.Templates, manifest.Templates)
	merge(out.Tokens, manifest.Tokens)
	merge(out.Assets, manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		merge(out.Templates, variant.Templates)
		merge(out.Tokens, variant.Tokens)
		merge(out.Assets, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			out.AssetBase = variant.Assets.Prefix
		}
	}
	return out
}

// Template returns the override for a logical template name, or name itself.
func (r Resolved) Template(name string) string {
	if override, ok := r.Templates[name]; ok && strings.TrimSpace(override) != "" {
		return override
	}
	return name
}

// AssetURL joins the asset prefix with the file registered under key.
func (r Resolved) AssetURL(key string) string {
	file, ok := r.Assets[key]
	if !ok || file == "" {
		return ""
	}
	if r.AssetBase == "" {
		return file
	}
	return strings.TrimRight(r.AssetBase, "/") + "/" + strings.TrimLeft(file, "/")
}

// Globals returns the values exposed to templates under "theme".
func (r Resolved) Globals() map[string]any {
	tokens := make(map[string]any, len(r.Tokens))
	for key, value := range r.Tokens {
		tokens[key] = value
	}
	return map[string]any{
		"theme": map[string]any{
			"name":       r.Theme,
			"variant":    r.Variant,
			"tokens":     tokens,
			"stylesheet": r.AssetURL("stylesheet"),
		},
	}
}

func merge(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

// Default is the manifest of the built-in theme. The "compact" variant swaps
// the basket body for a condensed table.
func Default() *theme.Manifest {
	return &theme.Manifest{
		Name:    "classic",
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent": "#1a73e8",
			"danger": "#c5221f",
		},
		Assets: theme.Assets{
			Prefix: "/assets/classic",
			Files: map[string]string{
				"stylesheet": "storefront.css",
			},
		},
		Variants: map[string]theme.Variant{
			"compact": {
				Templates: map[string]string{
					"basket/standard/body-standard": "basket/standard/body-compact",
				},
			},
		},
	}
}
