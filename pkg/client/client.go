package client

import (
	"context"

	"github.com/goliatone/go-storefront/pkg/view"
)

// Client is an HTML fragment producer.
type Client interface {
	// Path identifies the client, for example "checkout/standard/address".
	Path() string
	Header(ctx context.Context, uid string) (string, error)
	Body(ctx context.Context, uid string) (string, error)
	// Process applies request parameters before rendering.
	Process(ctx context.Context) error
	// AddData populates v and returns it.
	AddData(ctx context.Context, v *view.View) (*view.View, error)
	// SubClient creates the named sub-client. An empty name selects the
	// configured implementation.
	SubClient(typ, name string) (Client, error)
	SetView(v *view.View)
	View() *view.View
	// SetObject records the outermost client so inner layers call back
	// through the decorator chain.
	SetObject(c Client)
}
