package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-storefront/pkg/frontend"
)

// Products implements frontend.ProductController.
type Products struct {
	db      *sql.DB
	domains []string
}

var _ frontend.ProductController = (*Products)(nil)

// Uses returns a controller remembering the requested domains. Prices are
// stored with the product, so every domain is served from one row.
func (p *Products) Uses(domains ...string) frontend.ProductController {
	return &Products{db: p.db, domains: append([]string(nil), domains...)}
}

// Domains returns the domains passed to Uses.
func (p *Products) Domains() []string {
	return append([]string(nil), p.domains...)
}

// Get loads a product by id.
func (p *Products) Get(ctx context.Context, id string) (frontend.Product, error) {
	row := p.db.QueryRowContext(ctx, `SELECT id, code, type, label, status, price, costs,
		taxrate, taxname, currency, siteid FROM product WHERE id = ?`, id)

	var out frontend.Product
	err := row.Scan(&out.ID, &out.Code, &out.Type, &out.Label, &out.Status,
		&out.Price.Value, &out.Price.Costs, &out.Price.TaxRate, &out.Price.TaxName,
		&out.Price.Currency, &out.SiteID)
	if errors.Is(err, sql.ErrNoRows) {
		return frontend.Product{}, fmt.Errorf("product %s: %w", id, frontend.ErrNotFound)
	}
	if err != nil {
		return frontend.Product{}, fmt.Errorf("sqlstore: get product %s: %w", id, err)
	}
	return out, nil
}

// Stock implements frontend.StockController.
type Stock struct {
	db *sql.DB
}

var _ frontend.StockController = (*Stock)(nil)

// sortColumns maps sort keys to columns. A leading "-" sorts descending.
var sortColumns = map[string]string{
	"stock.type":        "type",
	"stock.stocklevel":  "stocklevel",
	"stock.productcode": "productcode",
	"stock.dateback":    "dateback",
}

// Search returns the stock items of the filter's product codes.
func (s *Stock) Search(ctx context.Context, filter frontend.StockFilter) ([]frontend.StockItem, error) {
	if len(filter.Codes) == 0 {
		return []frontend.StockItem{}, nil
	}
	order, err := orderBy(filter.Sort)
	if err != nil {
		return nil, err
	}

	var (
		where = []string{"productcode IN (" + placeholders(len(filter.Codes)) + ")"}
		args  = make([]any, 0, len(filter.Codes)+3)
	)
	for _, code := range filter.Codes {
		args = append(args, code)
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}

	query := "SELECT id, productcode, type, stocklevel, dateback FROM stock WHERE " +
		strings.Join(where, " AND ") + " ORDER BY " + order
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: search stock: %w", err)
	}
	defer rows.Close()

	items := []frontend.StockItem{}
	for rows.Next() {
		var (
			id    int64
			item  frontend.StockItem
			level sql.NullInt64
		)
		if err := rows.Scan(&id, &item.ProductCode, &item.Type, &level, &item.DateBack); err != nil {
			return nil, fmt.Errorf("sqlstore: scan stock: %w", err)
		}
		item.ID = fmt.Sprint(id)
		if level.Valid {
			n := int(level.Int64)
			item.StockLevel = &n
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterate stock: %w", err)
	}
	return items, nil
}

func orderBy(sort string) (string, error) {
	sort = strings.TrimSpace(sort)
	if sort == "" {
		sort = "stock.type"
	}
	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = strings.TrimPrefix(sort, "-")
	}
	column, ok := sortColumns[sort]
	if !ok {
		return "", fmt.Errorf("sqlstore: unsupported stock sort %q", sort)
	}
	return column + " " + dir + ", id ASC", nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Locales implements frontend.LocaleManager.
type Locales struct {
	db *sql.DB
}

var _ frontend.LocaleManager = (*Locales)(nil)

// Search lists locales ordered by position.
func (l *Locales) Search(ctx context.Context, activeOnly bool) ([]frontend.Locale, error) {
	query := "SELECT siteid, languageid, currencyid, position, status FROM locale"
	if activeOnly {
		query += " WHERE status > 0"
	}
	query += " ORDER BY position ASC, languageid ASC"

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: search locales: %w", err)
	}
	defer rows.Close()

	var out []frontend.Locale
	for rows.Next() {
		var loc frontend.Locale
		if err := rows.Scan(&loc.SiteID, &loc.LanguageID, &loc.CurrencyID, &loc.Position, &loc.Status); err != nil {
			return nil, fmt.Errorf("sqlstore: scan locale: %w", err)
		}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterate locales: %w", err)
	}
	return out, nil
}
