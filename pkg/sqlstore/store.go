// Package sqlstore serves catalog products, stock levels and locales from a
// SQLite database.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-storefront/pkg/frontend"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS product (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL DEFAULT 'default',
	label TEXT NOT NULL,
	status INTEGER NOT NULL DEFAULT 1,
	price INTEGER NOT NULL DEFAULT 0,
	costs INTEGER NOT NULL DEFAULT 0,
	taxrate TEXT NOT NULL DEFAULT '0.00',
	taxname TEXT NOT NULL DEFAULT '',
	currency TEXT NOT NULL DEFAULT 'EUR',
	siteid TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS stock (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	productcode TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT 'default',
	stocklevel INTEGER,
	dateback TEXT NOT NULL DEFAULT '',
	UNIQUE(productcode, type)
);
CREATE INDEX IF NOT EXISTS idx_stock_productcode ON stock(productcode);
CREATE TABLE IF NOT EXISTS locale (
	siteid TEXT NOT NULL,
	languageid TEXT NOT NULL,
	currencyid TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	status INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (siteid, languageid, currencyid)
);
`

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlstore: database path is required")
	}
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlstore: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Products returns the product controller.
func (s *Store) Products() *Products {
	return &Products{db: s.db}
}

// Stock returns the stock controller.
func (s *Store) Stock() *Stock {
	return &Stock{db: s.db}
}

// Locales returns the locale manager.
func (s *Store) Locales() *Locales {
	return &Locales{db: s.db}
}

// PutProduct inserts or replaces a product.
func (s *Store) PutProduct(ctx context.Context, p frontend.Product) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO product
		(id, code, type, label, status, price, costs, taxrate, taxname, currency, siteid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Code, defaultString(p.Type, "default"), p.Label, p.Status,
		p.Price.Value, p.Price.Costs, defaultString(p.Price.TaxRate, "0.00"), p.Price.TaxName,
		defaultString(p.Price.Currency, "EUR"), p.SiteID,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: put product %s: %w", p.ID, err)
	}
	return nil
}

// PutStock inserts or replaces the stock of a product code and type.
func (s *Store) PutStock(ctx context.Context, item frontend.StockItem) error {
	var level sql.NullInt64
	if item.StockLevel != nil {
		level = sql.NullInt64{Int64: int64(*item.StockLevel), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO stock (productcode, type, stocklevel, dateback)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(productcode, type) DO UPDATE SET stocklevel = excluded.stocklevel, dateback = excluded.dateback`,
		item.ProductCode, defaultString(item.Type, "default"), level, item.DateBack,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: put stock %s: %w", item.ProductCode, err)
	}
	return nil
}

// PutLocale inserts or replaces a locale.
func (s *Store) PutLocale(ctx context.Context, l frontend.Locale) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO locale
		(siteid, languageid, currencyid, position, status) VALUES (?, ?, ?, ?, ?)`,
		l.SiteID, l.LanguageID, l.CurrencyID, l.Position, l.Status,
	)
	if err != nil {
		return fmt.Errorf("sqlstore: put locale %s: %w", l.LanguageID, err)
	}
	return nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
