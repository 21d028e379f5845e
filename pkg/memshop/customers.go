package memshop

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-storefront/pkg/frontend"
)

// Customers is a CustomerController over an in-memory account list.
type Customers struct {
	mu        sync.RWMutex
	customers map[string]frontend.Customer
}

var _ frontend.CustomerController = (*Customers)(nil)

// NewCustomers returns a controller holding customers keyed by their ID.
func NewCustomers(customers ...frontend.Customer) *Customers {
	c := &Customers{customers: make(map[string]frontend.Customer, len(customers))}
	for _, customer := range customers {
		c.Put(customer)
	}
	return c
}

// Put adds or replaces a customer.
func (c *Customers) Put(customer frontend.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customers[customer.ID] = customer
}

// Get returns the customer of userID. Domains are accepted for interface
// compatibility; addresses are always loaded.
func (c *Customers) Get(_ context.Context, userID string, _ ...string) (frontend.Customer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	customer, ok := c.customers[userID]
	if !ok {
		return frontend.Customer{}, fmt.Errorf("customer %s: %w", userID, frontend.ErrNotFound)
	}
	customer.Addresses = append([]frontend.Address(nil), customer.Addresses...)
	return customer, nil
}
