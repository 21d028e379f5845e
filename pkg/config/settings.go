package config

import "time"

// SettingsKey is the subtree holding server settings.
const SettingsKey = "storefront"

// Settings configures the storefront process (HTTP server, storage, logging).
type Settings struct {
	Addr          string          `mapstructure:"addr"`
	BasePath      string          `mapstructure:"base_path"`
	TemplatesDir  string          `mapstructure:"templates_dir"`
	DatabasePath  string          `mapstructure:"database_path"`
	Site          string          `mapstructure:"site"`
	Locale        string          `mapstructure:"locale"`
	Currency      string          `mapstructure:"currency"`
	Theme         string          `mapstructure:"theme"`
	ThemeVariant  string          `mapstructure:"theme_variant"`
	I18nDir       string          `mapstructure:"i18n_dir"`
	ShutdownGrace time.Duration   `mapstructure:"shutdown_grace"`
	Logging       LoggingSettings `mapstructure:"logging"`
}

// LoggingSettings configures the zap logger.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Addr:          ":8080",
		DatabasePath:  "storefront.db",
		Site:          "default",
		Locale:        "en",
		Currency:      "EUR",
		ShutdownGrace: 5 * time.Second,
		Logging: LoggingSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadSettings decodes the storefront subtree over DefaultSettings.
func LoadSettings(s *Store) (Settings, error) {
	settings := DefaultSettings()
	if s == nil {
		return settings, nil
	}
	if _, ok := s.Get(SettingsKey); !ok {
		return settings, nil
	}
	if err := s.Decode(SettingsKey, &settings); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}
