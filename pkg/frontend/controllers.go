package frontend

import "context"

// Product domains the basket client asks for when adding products.
var BasketProductDomains = []string{"attribute", "media", "price", "product", "text"}

// BasketController manipulates the current basket.
type BasketController interface {
	Get(ctx context.Context) (*Basket, error)
	AddProduct(ctx context.Context, input AddProductInput) error
	UpdateProduct(ctx context.Context, position, quantity int) error
	DeleteProduct(ctx context.Context, position int) error
	AddCoupon(ctx context.Context, code string) error
	DeleteCoupon(ctx context.Context, code string) error
	AddAddress(ctx context.Context, typ AddressType, address Address) error
	DeleteAddress(ctx context.Context, typ AddressType) error
	Check(ctx context.Context, parts Part) error
	Save(ctx context.Context) error
}

// ProductController loads catalog products.
type ProductController interface {
	Uses(domains ...string) ProductController
	Get(ctx context.Context, id string) (Product, error)
}

// CustomerController loads customer accounts.
type CustomerController interface {
	Get(ctx context.Context, userID string, domains ...string) (Customer, error)
}

// StockController searches stock levels.
type StockController interface {
	Search(ctx context.Context, filter StockFilter) ([]StockItem, error)
}

// LocaleManager lists available locales.
type LocaleManager interface {
	Search(ctx context.Context, activeOnly bool) ([]Locale, error)
}

// Controllers bundles the collaborators a request may use. Nil members are
// reported as ControllerError by the clients that need them.
type Controllers struct {
	Basket   BasketController
	Product  ProductController
	Customer CustomerController
	Stock    StockController
	Locale   LocaleManager
}
