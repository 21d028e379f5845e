package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Delimiter separates key segments.
const Delimiter = "/"

// EnvPrefix scopes environment overrides (STOREFRONT_CLIENT_HTML_...).
const EnvPrefix = "STOREFRONT"

// Config is the lookup surface the clients depend on.
type Config interface {
	Get(key string) (any, bool)
	String(key, fallback string) string
	Int(key string, fallback int) int
	Bool(key string, fallback bool) bool
	Strings(key string, fallback []string) []string
}

// Store is a viper-backed Config.
type Store struct {
	v *viper.Viper
}

var _ Config = (*Store)(nil)

// Option configures a Store during construction.
type Option func(*Store) error

// WithFile reads a configuration file (YAML, JSON or TOML by extension).
func WithFile(path string) Option {
	return func(s *Store) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}
		s.v.SetConfigFile(path)
		if err := s.v.MergeInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return nil
	}
}

// WithYAML merges an in-memory YAML document.
func WithYAML(data []byte) Option {
	return func(s *Store) error {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		s.v.SetConfigType("yaml")
		if err := s.v.MergeConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("config: merge yaml: %w", err)
		}
		return nil
	}
}

// WithValues sets flat slash-delimited keys, overriding file values.
func WithValues(values map[string]any) Option {
	return func(s *Store) error {
		for key, value := range values {
			key = normalizeKey(key)
			if key == "" {
				continue
			}
			s.v.Set(key, value)
		}
		return nil
	}
}

// WithEnv enables STOREFRONT_* environment overrides.
func WithEnv() Option {
	return func(s *Store) error {
		s.v.SetEnvPrefix(EnvPrefix)
		s.v.SetEnvKeyReplacer(strings.NewReplacer("/", "_", "-", "_", ".", "_"))
		s.v.AutomaticEnv()
		return nil
	}
}

// New builds a Store applying options in order.
func New(options ...Option) (*Store, error) {
	s := &Store{v: viper.NewWithOptions(viper.KeyDelimiter(Delimiter))}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustNew panics when construction fails. Useful for tests and init-time wiring.
func MustNew(options ...Option) *Store {
	s, err := New(options...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromMap is shorthand for New(WithValues(values)).
func FromMap(values map[string]any) *Store {
	return MustNew(WithValues(values))
}

// Get returns the raw value and whether the key is set.
func (s *Store) Get(key string) (any, bool) {
	if s == nil || s.v == nil {
		return nil, false
	}
	key = normalizeKey(key)
	if key == "" || !s.v.IsSet(key) {
		return nil, false
	}
	return s.v.Get(key), true
}

func (s *Store) String(key, fallback string) string {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	value, err := cast.ToStringE(raw)
	if err != nil {
		return fallback
	}
	return value
}

func (s *Store) Int(key string, fallback int) int {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	value, err := cast.ToIntE(raw)
	if err != nil {
		return fallback
	}
	return value
}

func (s *Store) Bool(key string, fallback bool) bool {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	value, err := cast.ToBoolE(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Strings returns the configured list. An explicitly empty list is honoured;
// only an unset key yields the fallback.
func (s *Store) Strings(key string, fallback []string) []string {
	raw, ok := s.Get(key)
	if !ok {
		return append([]string(nil), fallback...)
	}
	if raw == nil {
		return []string{}
	}
	if str, isString := raw.(string); isString {
		str = strings.TrimSpace(str)
		if str == "" {
			return []string{}
		}
		parts := strings.Split(str, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	value, err := cast.ToStringSliceE(raw)
	if err != nil {
		return append([]string(nil), fallback...)
	}
	return value
}

// Duration parses a duration value, returning fallback when unset or invalid.
func (s *Store) Duration(key string, fallback time.Duration) time.Duration {
	raw, ok := s.Get(key)
	if !ok {
		return fallback
	}
	value, err := cast.ToDurationE(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Decode unmarshals the subtree under key into out using mapstructure tags.
func (s *Store) Decode(key string, out any) error {
	if s == nil || s.v == nil {
		return fmt.Errorf("config: store is nil")
	}
	if err := s.v.UnmarshalKey(normalizeKey(key), out); err != nil {
		return fmt.Errorf("config: decode %s: %w", key, err)
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.Trim(strings.TrimSpace(key), Delimiter)
}
