package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	sf "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/components/storefront"
	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/i18n"
	"github.com/goliatone/go-storefront/pkg/logging"
	"github.com/goliatone/go-storefront/pkg/memshop"
	"github.com/goliatone/go-storefront/pkg/sqlstore"
	"github.com/goliatone/go-storefront/pkg/storectx"
	storetheme "github.com/goliatone/go-storefront/pkg/theme"
)

// app holds the collaborators shared by the subcommands.
type app struct {
	settings  config.Settings
	logger    *zap.Logger
	store     *sqlstore.Store
	component *storefront.Component
}

func newApp(ctx context.Context) (*app, error) {
	cfg, settings, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(settings.Logging)
	if err != nil {
		return nil, err
	}

	store, err := sqlstore.Open(ctx, settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	engine, err := sf.NewEngine(settings.TemplatesDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	bundle, err := loadTranslations(settings)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	selector := storetheme.NewSelector(settings.Theme, settings.ThemeVariant)
	if err := selector.Register(storetheme.Default()); err != nil {
		_ = store.Close()
		return nil, err
	}
	selection, err := selector.Select(settings.Theme, settings.ThemeVariant)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("select theme: %w", err)
	}

	factory, err := sf.NewFactory()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	site := storectx.Site{Code: settings.Site, Label: settings.Site}
	if raw, ok := cfg.Get("storefront/site_config"); ok {
		if values, ok := raw.(map[string]any); ok {
			site.Config = values
		}
	}

	component := storefront.New(
		storefront.WithFactory(factory),
		storefront.WithRenderer(engine),
		storefront.WithConfig(cfg),
		storefront.WithTranslations(bundle),
		storefront.WithLogger(logger),
		storefront.WithTheme(storetheme.Resolve(selection)),
		storefront.WithLocale(site, settings.Locale, settings.Currency),
		storefront.WithCache(memshop.NewCache()),
		storefront.WithCollaborators(storefront.Collaborators{
			Shop: memshop.NewShop(
				memshop.WithCurrency(settings.Currency),
				memshop.WithStock(store.Stock()),
			),
			Products:  store.Products(),
			Customers: memshop.NewCustomers(),
			Stock:     store.Stock(),
			Locales:   store.Locales(),
		}),
	)

	return &app{
		settings:  settings,
		logger:    logger,
		store:     store,
		component: component,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func loadTranslations(settings config.Settings) (*i18n.Bundle, error) {
	options := []i18n.Option{i18n.WithFallbackLocale(settings.Locale)}
	bundle, err := i18n.Load(i18n.LocalesFS(), options...)
	if err != nil {
		return nil, err
	}
	if dir := strings.TrimSpace(settings.I18nDir); dir != "" {
		if err := bundle.LoadFS(os.DirFS(dir)); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}
