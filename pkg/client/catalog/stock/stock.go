// Package stock implements the catalog/stock client which renders the stock
// levels of the products listed in s_prodcode.
package stock

import (
	"context"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

// Path is the client path of the stock indicator.
const Path = "catalog/stock"

// View keys set by the stock client.
const (
	KeyBody      = "stockBody"
	KeyHeader    = "stockHeader"
	KeyItems     = "stockItemsByProducts"
	KeyCodes     = "stockProductCodes"
	KeyStatus    = "stockStatus"
	DefaultSort  = "stock.type"
	DefaultLow   = 5
	SiteStockKey = "stocktype"
)

// Stock states used by the templates.
const (
	StatusUnlimited = "stock-unlimited"
	StatusHigh      = "stock-high"
	StatusLow       = "stock-low"
	StatusOut       = "stock-out"
)

// Client is the catalog/stock client.
type Client struct {
	client.Base
}

var _ client.Client = (*Client)(nil)

// New is the factory constructor of the stock client.
func New(sc *storectx.Context, f *client.Factory) client.Client {
	c := &Client{Base: client.NewBase(sc, f, Path)}
	c.SetObject(c)
	return c
}

// Register adds the stock client to f.
func Register(f *client.Factory) error {
	return f.Register(Path, client.DefaultName, New)
}

// Body renders the stock levels. Failures are logged and yield "".
func (c *Client) Body(ctx context.Context, uid string) (string, error) {
	out, err := c.render(ctx, uid, KeyBody, "body", "catalog/stock/body-standard", c.Base.Body)
	if err != nil {
		c.logError("body", err)
		return "", nil
	}
	return out, nil
}

// Header renders the header part. Failures are logged and yield "".
func (c *Client) Header(ctx context.Context, uid string) (string, error) {
	out, err := c.render(ctx, uid, KeyHeader, "header", "catalog/stock/header-standard", c.Base.Header)
	if err != nil {
		c.logError("header", err)
		return "", nil
	}
	return out, nil
}

func (c *Client) render(ctx context.Context, uid, key, kind, def string, parts func(context.Context, string) (string, error)) (string, error) {
	v, err := c.Populate(ctx)
	if err != nil {
		return "", err
	}
	html, err := parts(ctx, uid)
	if err != nil {
		return "", err
	}
	v.Set(key, html)
	return v.Render(c.Template(kind, def))
}

// Process runs the sub-clients and logs their failures.
func (c *Client) Process(ctx context.Context) error {
	if err := c.Base.Process(ctx); err != nil {
		c.logError("process", err)
	}
	return nil
}

// AddData searches the stock of the requested product codes.
func (c *Client) AddData(ctx context.Context, v *view.View) (*view.View, error) {
	codes := v.Params().Strings("s_prodcode")
	if codes == nil {
		codes = []string{}
	}

	items, err := c.stockItems(ctx, codes)
	if err != nil {
		return v, err
	}

	byProduct := make(map[string][]frontend.StockItem, len(codes))
	for _, item := range items {
		byProduct[item.ProductCode] = append(byProduct[item.ProductCode], item)
	}

	low := c.Context().Conf().Int("client/html/catalog/stock/level/low", DefaultLow)
	status := make(map[string]string, len(byProduct))
	for code, list := range byProduct {
		status[code] = Status(list[0], low)
	}

	v.Set(KeyItems, byProduct)
	v.Set(KeyCodes, codes)
	v.Set(KeyStatus, status)

	return c.Base.AddData(ctx, v)
}

func (c *Client) stockItems(ctx context.Context, codes []string) ([]frontend.StockItem, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	sc := c.Context()
	ctl := sc.Controllers.Stock
	if ctl == nil {
		return nil, frontend.NewControllerError("No stock controller available", nil)
	}

	var stockType string
	if raw, ok := sc.Locale.Site.ConfigValue(SiteStockKey); ok {
		stockType = cast.ToString(raw)
	}

	return ctl.Search(ctx, frontend.StockFilter{
		Codes: codes,
		Type:  stockType,
		Sort:  sc.Conf().String("client/html/catalog/stock/sort", DefaultSort),
		Limit: len(codes),
	})
}

func (c *Client) logError(op string, err error) {
	c.Context().Log().Error("stock client failed",
		zap.String("client", Path),
		zap.String("op", op),
		zap.Error(err),
	)
}

// Status classifies a stock item. Items without a level are unlimited.
func Status(item frontend.StockItem, low int) string {
	switch {
	case item.StockLevel == nil:
		return StatusUnlimited
	case *item.StockLevel <= 0:
		return StatusOut
	case *item.StockLevel <= low:
		return StatusLow
	default:
		return StatusHigh
	}
}
