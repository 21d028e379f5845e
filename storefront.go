// Package storefront wires the HTML storefront clients: the basket, the
// checkout address step and the catalog stock indicator.
//
// NewFactory returns a client factory with every built-in client and
// decorator registered. RenderClient runs one client through a request:
// Process, then Header and Body.
package storefront

import (
	"context"
	"fmt"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/client/basket"
	"github.com/goliatone/go-storefront/pkg/client/catalog/stock"
	"github.com/goliatone/go-storefront/pkg/client/checkout/address"
	"github.com/goliatone/go-storefront/pkg/client/decorators"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

// Client paths served by the built-in clients.
const (
	BasketPath  = basket.Path
	AddressPath = address.Path
	StockPath   = stock.Path
)

// NewFactory returns a factory with the built-in clients and decorators.
func NewFactory() (*client.Factory, error) {
	registry := client.NewDecoratorRegistry()
	if err := decorators.Register(registry); err != nil {
		return nil, fmt.Errorf("storefront: register decorators: %w", err)
	}

	f := client.NewFactory(registry)
	for _, register := range []func(*client.Factory) error{
		basket.Register,
		address.Register,
		stock.Register,
	} {
		if err := register(f); err != nil {
			return nil, fmt.Errorf("storefront: register client: %w", err)
		}
	}
	return f, nil
}

// MustNewFactory is NewFactory that panics on error.
func MustNewFactory() *client.Factory {
	f, err := NewFactory()
	if err != nil {
		panic(err)
	}
	return f
}

// Page is the output of one client request.
type Page struct {
	Header string
	Body   string
	View   *view.View
}

// RenderClient creates the client at path, processes the request held by v
// and renders header and body. A failed Process is reported in the view's
// error list and rendering continues.
func RenderClient(ctx context.Context, f *client.Factory, sc *storectx.Context, v *view.View, path string) (Page, error) {
	if f == nil {
		return Page{}, fmt.Errorf("storefront: factory is required")
	}
	c, err := f.Create(sc, path, "")
	if err != nil {
		return Page{}, err
	}
	c.SetView(v)

	if err := c.Process(ctx); err != nil {
		client.HandleError(sc, path, c.View(), err)
	}

	header, err := c.Header(ctx, "")
	if err != nil {
		return Page{}, err
	}
	body, err := c.Body(ctx, "")
	if err != nil {
		return Page{}, err
	}
	return Page{Header: header, Body: body, View: c.View()}, nil
}
