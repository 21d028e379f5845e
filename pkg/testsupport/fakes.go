package testsupport

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-storefront/pkg/frontend"
)

// Call is one recorded collaborator call.
type Call struct {
	Method string
	Args   []any
}

// RecordingBasket is a BasketController that records every call. Errors
// registered in Fail are returned by the named method.
type RecordingBasket struct {
	mu     sync.Mutex
	Basket *frontend.Basket
	Calls  []Call
	Fail   map[string]error
}

var _ frontend.BasketController = (*RecordingBasket)(nil)

// NewRecordingBasket returns a recorder around an empty basket.
func NewRecordingBasket() *RecordingBasket {
	return &RecordingBasket{Basket: frontend.NewBasket("b1", "EUR"), Fail: map[string]error{}}
}

func (r *RecordingBasket) record(method string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, Call{Method: method, Args: args})
	return r.Fail[method]
}

// Methods returns the recorded method names in call order.
func (r *RecordingBasket) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Calls))
	for _, call := range r.Calls {
		out = append(out, call.Method)
	}
	return out
}

// CallsTo returns the recorded calls of method.
func (r *RecordingBasket) CallsTo(method string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, call := range r.Calls {
		if call.Method == method {
			out = append(out, call)
		}
	}
	return out
}

func (r *RecordingBasket) Get(context.Context) (*frontend.Basket, error) {
	if err := r.record("Get"); err != nil {
		return nil, err
	}
	return r.Basket, nil
}

func (r *RecordingBasket) AddProduct(_ context.Context, input frontend.AddProductInput) error {
	return r.record("AddProduct", input)
}

func (r *RecordingBasket) UpdateProduct(_ context.Context, position, quantity int) error {
	return r.record("UpdateProduct", position, quantity)
}

func (r *RecordingBasket) DeleteProduct(_ context.Context, position int) error {
	return r.record("DeleteProduct", position)
}

func (r *RecordingBasket) AddCoupon(_ context.Context, code string) error {
	return r.record("AddCoupon", code)
}

func (r *RecordingBasket) DeleteCoupon(_ context.Context, code string) error {
	return r.record("DeleteCoupon", code)
}

func (r *RecordingBasket) AddAddress(_ context.Context, typ frontend.AddressType, address frontend.Address) error {
	if err := r.record("AddAddress", typ, address); err != nil {
		return err
	}
	r.mu.Lock()
	r.Basket.Addresses[typ] = []frontend.Address{address}
	r.mu.Unlock()
	return nil
}

func (r *RecordingBasket) DeleteAddress(_ context.Context, typ frontend.AddressType) error {
	if err := r.record("DeleteAddress", typ); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.Basket.Addresses, typ)
	r.mu.Unlock()
	return nil
}

func (r *RecordingBasket) Check(_ context.Context, parts frontend.Part) error {
	return r.record("Check", parts)
}

func (r *RecordingBasket) Save(context.Context) error {
	return r.record("Save")
}

// StaticProducts serves products from a map keyed by id.
type StaticProducts struct {
	Products map[string]frontend.Product
	Domains  []string
}

var _ frontend.ProductController = (*StaticProducts)(nil)

func (s *StaticProducts) Uses(domains ...string) frontend.ProductController {
	s.Domains = append([]string(nil), domains...)
	return s
}

func (s *StaticProducts) Get(_ context.Context, id string) (frontend.Product, error) {
	product, ok := s.Products[id]
	if !ok {
		return frontend.Product{}, fmt.Errorf("product %s: %w", id, frontend.ErrNotFound)
	}
	return product, nil
}

// StaticCustomers serves customers keyed by user id.
type StaticCustomers struct {
	Customers map[string]frontend.Customer
}

var _ frontend.CustomerController = (*StaticCustomers)(nil)

func (s *StaticCustomers) Get(_ context.Context, userID string, _ ...string) (frontend.Customer, error) {
	customer, ok := s.Customers[userID]
	if !ok {
		return frontend.Customer{}, fmt.Errorf("customer %s: %w", userID, frontend.ErrNotFound)
	}
	return customer, nil
}

// StaticStock answers stock searches from a fixed item list and records the
// last filter.
type StaticStock struct {
	Items      []frontend.StockItem
	LastFilter frontend.StockFilter
	Err        error
}

var _ frontend.StockController = (*StaticStock)(nil)

func (s *StaticStock) Search(_ context.Context, filter frontend.StockFilter) ([]frontend.StockItem, error) {
	s.LastFilter = filter
	if s.Err != nil {
		return nil, s.Err
	}
	codes := make(map[string]struct{}, len(filter.Codes))
	for _, code := range filter.Codes {
		codes[code] = struct{}{}
	}
	var out []frontend.StockItem
	for _, item := range s.Items {
		if _, ok := codes[item.ProductCode]; !ok {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		out = append(out, item)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// StaticLocales lists fixed locales.
type StaticLocales struct {
	Locales []frontend.Locale
}

var _ frontend.LocaleManager = (*StaticLocales)(nil)

func (s *StaticLocales) Search(_ context.Context, activeOnly bool) ([]frontend.Locale, error) {
	var out []frontend.Locale
	for _, locale := range s.Locales {
		if activeOnly && locale.Status <= 0 {
			continue
		}
		out = append(out, locale)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// RecordingCache records invalidated tags.
type RecordingCache struct {
	mu   sync.Mutex
	Tags []string
}

func (c *RecordingCache) Invalidate(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Tags = append(c.Tags, tags...)
}
