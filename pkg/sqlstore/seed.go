package sqlstore

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-storefront/pkg/frontend"
)

//go:embed seed/demo.yaml
var demoSeed []byte

// SeedData is the YAML document accepted by Seed.
type SeedData struct {
	Products []seedProduct `yaml:"products"`
	Stock    []seedStock   `yaml:"stock"`
	Locales  []seedLocale  `yaml:"locales"`
}

type seedProduct struct {
	ID     string `yaml:"id"`
	Code   string `yaml:"code"`
	Type   string `yaml:"type"`
	Label  string `yaml:"label"`
	Status int    `yaml:"status"`
	SiteID string `yaml:"siteid"`
	Price  struct {
		Value    int64  `yaml:"value"`
		Costs    int64  `yaml:"costs"`
		TaxRate  string `yaml:"taxrate"`
		TaxName  string `yaml:"taxname"`
		Currency string `yaml:"currency"`
	} `yaml:"price"`
}

type seedStock struct {
	ProductCode string `yaml:"productcode"`
	Type        string `yaml:"type"`
	StockLevel  *int   `yaml:"stocklevel"`
	DateBack    string `yaml:"dateback"`
}

type seedLocale struct {
	SiteID     string `yaml:"siteid"`
	LanguageID string `yaml:"languageid"`
	CurrencyID string `yaml:"currencyid"`
	Position   int    `yaml:"position"`
	Status     int    `yaml:"status"`
}

// DemoSeed returns the built-in demo catalog.
func DemoSeed() []byte {
	return append([]byte(nil), demoSeed...)
}

// ParseSeed decodes a seed document.
func ParseSeed(data []byte) (SeedData, error) {
	var out SeedData
	if err := yaml.Unmarshal(data, &out); err != nil {
		return SeedData{}, fmt.Errorf("sqlstore: parse seed: %w", err)
	}
	return out, nil
}

// Seed writes every record of data and returns the number written.
func (s *Store) Seed(ctx context.Context, data SeedData) (int, error) {
	n := 0
	for _, p := range data.Products {
		err := s.PutProduct(ctx, frontend.Product{
			ID: p.ID, Code: p.Code, Type: p.Type, Label: p.Label, Status: p.Status, SiteID: p.SiteID,
			Price: frontend.Price{
				Value: p.Price.Value, Costs: p.Price.Costs, TaxRate: p.Price.TaxRate,
				TaxName: p.Price.TaxName, Currency: p.Price.Currency,
			},
		})
		if err != nil {
			return n, err
		}
		n++
	}
	for _, item := range data.Stock {
		err := s.PutStock(ctx, frontend.StockItem{
			ProductCode: item.ProductCode, Type: item.Type, StockLevel: item.StockLevel, DateBack: item.DateBack,
		})
		if err != nil {
			return n, err
		}
		n++
	}
	for _, l := range data.Locales {
		err := s.PutLocale(ctx, frontend.Locale{
			SiteID: l.SiteID, LanguageID: l.LanguageID, CurrencyID: l.CurrencyID, Position: l.Position, Status: l.Status,
		})
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
