package memshop

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-storefront/pkg/frontend"
)

// Check failure codes reported through frontend.PluginError.
const (
	CodeStockNotEnough = "stock.notenough"
	CodeProductUnknown = "product.unknown"
)

// Shop stores baskets by session id and the coupon codes it accepts.
type Shop struct {
	mu       sync.RWMutex
	baskets  map[string]*frontend.Basket
	coupons  map[string]int64
	currency string
	stock    frontend.StockController
}

// Option configures a Shop.
type Option func(*Shop)

// WithCoupon accepts code with a rebate in minor units.
func WithCoupon(code string, rebate int64) Option {
	return func(s *Shop) {
		if code = strings.TrimSpace(code); code != "" {
			s.coupons[code] = rebate
		}
	}
}

// WithCurrency sets the currency of new baskets.
func WithCurrency(currency string) Option {
	return func(s *Shop) {
		if currency = strings.TrimSpace(currency); currency != "" {
			s.currency = currency
		}
	}
}

// WithStock enables stock checks against ctl.
func WithStock(ctl frontend.StockController) Option {
	return func(s *Shop) {
		s.stock = ctl
	}
}

// NewShop returns an empty shop.
func NewShop(options ...Option) *Shop {
	s := &Shop{
		baskets:  make(map[string]*frontend.Basket),
		coupons:  make(map[string]int64),
		currency: "EUR",
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Basket returns a controller editing a draft of the session's basket.
func (s *Shop) Basket(sessionID string) *BasketController {
	return &BasketController{shop: s, sessionID: sessionID}
}

// Stored returns a copy of the saved basket of sessionID.
func (s *Shop) Stored(sessionID string) (*frontend.Basket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	basket, ok := s.baskets[sessionID]
	if !ok {
		return nil, false
	}
	return cloneBasket(basket), true
}

// Forget drops the saved basket of sessionID.
func (s *Shop) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.baskets, sessionID)
}

// Len returns the number of saved baskets.
func (s *Shop) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.baskets)
}

func (s *Shop) load(sessionID string) *frontend.Basket {
	if stored, ok := s.Stored(sessionID); ok {
		return stored
	}
	return frontend.NewBasket(sessionID, s.currency)
}

func (s *Shop) store(sessionID string, basket *frontend.Basket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baskets[sessionID] = cloneBasket(basket)
}

func (s *Shop) coupon(code string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rebate, ok := s.coupons[code]
	return rebate, ok
}

// BasketController implements frontend.BasketController for one session.
type BasketController struct {
	shop      *Shop
	sessionID string

	mu    sync.Mutex
	draft *frontend.Basket
}

var _ frontend.BasketController = (*BasketController)(nil)

func (c *BasketController) basket() *frontend.Basket {
	if c.draft == nil {
		c.draft = c.shop.load(c.sessionID)
	}
	return c.draft
}

// Get returns the draft basket.
func (c *BasketController) Get(context.Context) (*frontend.Basket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.basket(), nil
}

// AddProduct appends a line item or raises the quantity of an identical one.
func (c *BasketController) AddProduct(_ context.Context, input frontend.AddProductInput) error {
	if input.Product.Status <= 0 {
		return frontend.NewDomainError("Product is not available", fmt.Errorf("product %s: %w", input.Product.ID, frontend.ErrNotFound))
	}
	if input.Quantity <= 0 {
		return nil
	}

	item := frontend.OrderProduct{
		ProductID:   input.Product.ID,
		ProductCode: input.Product.Code,
		Name:        input.Product.Label,
		Quantity:    input.Quantity,
		Price:       input.Product.Price,
		StockType:   input.StockType,
		Supplier:    input.Supplier,
		SiteID:      input.SiteID,
		Attributes:  orderAttributes(input),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	basket := c.basket()
	for i := range basket.Products {
		if sameLine(basket.Products[i], item) {
			basket.Products[i].Quantity += item.Quantity
			return nil
		}
	}
	item.Position = nextPosition(basket.Products)
	basket.Products = append(basket.Products, item)
	return nil
}

// UpdateProduct sets the quantity of the line item at position.
func (c *BasketController) UpdateProduct(_ context.Context, position, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	basket := c.basket()
	for i := range basket.Products {
		if basket.Products[i].Position == position {
			basket.Products[i].Quantity = quantity
			return nil
		}
	}
	return positionError(position)
}

// DeleteProduct removes the line item at position.
func (c *BasketController) DeleteProduct(_ context.Context, position int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	basket := c.basket()
	for i := range basket.Products {
		if basket.Products[i].Position == position {
			basket.Products = append(basket.Products[:i], basket.Products[i+1:]...)
			return nil
		}
	}
	return positionError(position)
}

// AddCoupon redeems a known coupon code.
func (c *BasketController) AddCoupon(_ context.Context, code string) error {
	rebate, ok := c.shop.coupon(code)
	if !ok {
		return frontend.NewDomainError("Coupon code is invalid", fmt.Errorf("coupon %q: %w", code, frontend.ErrNotFound))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	basket := c.basket()
	basket.Coupons[code] = []frontend.OrderProduct{{
		ProductCode: code,
		Name:        code,
		Quantity:    1,
		Price:       frontend.Price{Value: -rebate, Rebate: rebate, Currency: basket.Currency},
	}}
	return nil
}

// DeleteCoupon removes a redeemed coupon.
func (c *BasketController) DeleteCoupon(_ context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	basket := c.basket()
	if _, ok := basket.Coupons[code]; !ok {
		return frontend.NewDomainError("Coupon code is invalid", fmt.Errorf("coupon %q: %w", code, frontend.ErrNotFound))
	}
	delete(basket.Coupons, code)
	return nil
}

// AddAddress replaces the address of typ.
func (c *BasketController) AddAddress(_ context.Context, typ frontend.AddressType, address frontend.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.basket().Addresses[typ] = []frontend.Address{address}
	return nil
}

// DeleteAddress removes the address of typ.
func (c *BasketController) DeleteAddress(_ context.Context, typ frontend.AddressType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.basket().Addresses, typ)
	return nil
}

// Check validates the requested basket parts. Products are checked against
// the stock controller when one is configured.
func (c *BasketController) Check(ctx context.Context, parts frontend.Part) error {
	c.mu.Lock()
	products := append([]frontend.OrderProduct(nil), c.basket().Products...)
	c.mu.Unlock()

	if parts&frontend.PartProduct == 0 || c.shop.stock == nil || len(products) == 0 {
		return nil
	}

	codes := make([]string, 0, len(products))
	for _, item := range products {
		codes = append(codes, item.ProductCode)
	}
	items, err := c.shop.stock.Search(ctx, frontend.StockFilter{Codes: codes})
	if err != nil {
		return fmt.Errorf("memshop: stock check: %w", err)
	}

	failures := map[string]string{}
	for _, product := range products {
		key := strconv.Itoa(product.Position)
		item, ok := findStock(items, product)
		switch {
		case !ok:
			failures[key] = CodeProductUnknown
		case item.StockLevel != nil && *item.StockLevel < product.Quantity:
			failures[key] = CodeStockNotEnough
		}
	}
	if len(failures) > 0 {
		return frontend.NewPluginError("Checks for available products failed", map[string]map[string]string{"product": failures})
	}
	return nil
}

// Save stores the draft as the session's basket.
func (c *BasketController) Save(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shop.store(c.sessionID, c.basket())
	return nil
}

func findStock(items []frontend.StockItem, product frontend.OrderProduct) (frontend.StockItem, bool) {
	for _, item := range items {
		if item.ProductCode != product.ProductCode {
			continue
		}
		if product.StockType != "" && item.Type != product.StockType {
			continue
		}
		return item, true
	}
	return frontend.StockItem{}, false
}

func positionError(position int) error {
	return frontend.NewDomainError("Product is not available", fmt.Errorf("position %d: %w", position, frontend.ErrNotFound))
}

func nextPosition(products []frontend.OrderProduct) int {
	next := 0
	for _, item := range products {
		if item.Position >= next {
			next = item.Position + 1
		}
	}
	return next
}

func sameLine(a, b frontend.OrderProduct) bool {
	if a.ProductID != b.ProductID || a.StockType != b.StockType || a.Supplier != b.Supplier || a.SiteID != b.SiteID {
		return false
	}
	if len(a.Attributes) != len(b.Attributes) {
		return false
	}
	for i := range a.Attributes {
		if a.Attributes[i] != b.Attributes[i] {
			return false
		}
	}
	return true
}

func orderAttributes(input frontend.AddProductInput) []frontend.OrderAttribute {
	var attrs []frontend.OrderAttribute
	for _, id := range input.VariantAttrs {
		attrs = append(attrs, frontend.OrderAttribute{AttributeID: id, Type: "variant", Quantity: 1})
	}
	for _, id := range sortedIntKeys(input.ConfigAttrs) {
		attrs = append(attrs, frontend.OrderAttribute{AttributeID: id, Type: "config", Quantity: input.ConfigAttrs[id]})
	}
	for _, id := range sortedStringKeys(input.CustomAttrs) {
		attrs = append(attrs, frontend.OrderAttribute{AttributeID: id, Type: "custom", Value: input.CustomAttrs[id], Quantity: 1})
	}
	return attrs
}

func sortedIntKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func cloneBasket(b *frontend.Basket) *frontend.Basket {
	out := frontend.NewBasket(b.ID, b.Currency)
	for _, item := range b.Products {
		item.Attributes = append([]frontend.OrderAttribute(nil), item.Attributes...)
		out.Products = append(out.Products, item)
	}
	for typ, list := range b.Addresses {
		out.Addresses[typ] = append([]frontend.Address(nil), list...)
	}
	for code, list := range b.Coupons {
		out.Coupons[code] = append([]frontend.OrderProduct(nil), list...)
	}
	for typ, list := range b.Services {
		out.Services[typ] = append([]frontend.Service(nil), list...)
	}
	return out
}
