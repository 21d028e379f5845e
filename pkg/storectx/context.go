// Package storectx carries the request-scoped collaborators of the HTML
// clients: configuration, logger, translator, session, locale and the
// frontend controllers. A Context is built per request and passed explicitly.
package storectx

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/i18n"
)

// Session stores per-visitor values between requests.
type Session interface {
	Get(key string, fallback any) any
	Set(key string, value any)
}

// CacheInvalidator drops cached output tagged with any of the given tags.
type CacheInvalidator interface {
	Invalidate(tags ...string)
}

// Site describes the current shop site.
type Site struct {
	Code   string         `json:"code"`
	Label  string         `json:"label"`
	Config map[string]any `json:"config"`
}

// ConfigValue returns a site specific setting.
func (s Site) ConfigValue(key string) (any, bool) {
	if s.Config == nil {
		return nil, false
	}
	value, ok := s.Config[key]
	return value, ok
}

// Locale is the locale the request is served in.
type Locale struct {
	Site       Site   `json:"site"`
	LanguageID string `json:"languageid"`
	CurrencyID string `json:"currencyid"`
}

// Context is the request-scoped dependency bundle.
type Context struct {
	Config      config.Config
	Logger      *zap.Logger
	I18n        i18n.Translator
	Session     Session
	Locale      Locale
	UserID      string
	Controllers frontend.Controllers
	Cache       CacheInvalidator
}

// Log returns the context logger or a no-op logger.
func (c *Context) Log() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Translate translates msg within domain, passing it through when no
// translator is configured.
func (c *Context) Translate(domain, msg string, args ...any) string {
	if c == nil || c.I18n == nil {
		return i18n.Passthrough.Translate(domain, msg, args...)
	}
	return c.I18n.Translate(domain, msg, args...)
}

// Conf returns the configuration or an empty one.
func (c *Context) Conf() config.Config {
	if c == nil || c.Config == nil {
		return emptyConfig
	}
	return c.Config
}

// Sess returns the session or a request-local in-memory session.
func (c *Context) Sess() Session {
	if c == nil {
		return NewMemorySession()
	}
	if c.Session == nil {
		c.Session = NewMemorySession()
	}
	return c.Session
}

// InvalidateCache forwards to the configured invalidator.
func (c *Context) InvalidateCache(tags ...string) {
	if c == nil || c.Cache == nil || len(tags) == 0 {
		return
	}
	c.Cache.Invalidate(tags...)
}

var emptyConfig config.Config = config.FromMap(nil)

// MemorySession is a mutex-protected map session.
type MemorySession struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemorySession returns an empty session.
func NewMemorySession() *MemorySession {
	return &MemorySession{values: make(map[string]any)}
}

func (s *MemorySession) Get(key string, fallback any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[strings.TrimSpace(key)]
	if !ok || value == nil {
		return fallback
	}
	return value
}

func (s *MemorySession) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key = strings.TrimSpace(key)
	if value == nil {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}
