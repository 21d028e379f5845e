package basket

import (
	"github.com/goliatone/go-storefront/pkg/frontend"
)

// TaxTotal sums line values and costs sharing one tax rate.
type TaxTotal struct {
	Value int64 `json:"value"`
	Costs int64 `json:"costs"`
}

// Sum returns value plus costs.
func (t TaxTotal) Sum() int64 { return t.Value + t.Costs }

// TaxRates groups product and service prices by tax rate.
func TaxRates(b *frontend.Basket) map[string]TaxTotal {
	out := map[string]TaxTotal{}
	eachPrice(b, func(price frontend.Price, quantity int64) {
		total := out[price.TaxRate]
		total.Value += price.Value * quantity
		total.Costs += price.Costs * quantity
		out[price.TaxRate] = total
	})
	return out
}

// NamedTaxes groups prices by tax name and then by rate. Prices without a
// tax name are listed under "tax".
func NamedTaxes(b *frontend.Basket) map[string]map[string]TaxTotal {
	out := map[string]map[string]TaxTotal{}
	eachPrice(b, func(price frontend.Price, quantity int64) {
		name := price.TaxName
		if name == "" {
			name = "tax"
		}
		if out[name] == nil {
			out[name] = map[string]TaxTotal{}
		}
		total := out[name][price.TaxRate]
		total.Value += price.Value * quantity
		total.Costs += price.Costs * quantity
		out[name][price.TaxRate] = total
	})
	return out
}

// CostsDelivery sums the shipping costs of all products and the delivery
// services.
func CostsDelivery(b *frontend.Basket) int64 {
	if b == nil {
		return 0
	}
	var costs int64
	for _, product := range b.Products {
		costs += product.Price.Costs * int64(product.Quantity)
	}
	for _, service := range b.Services[frontend.ServiceDelivery] {
		costs += service.Price.Costs
	}
	return costs
}

// CostsPayment sums the costs of the payment services.
func CostsPayment(b *frontend.Basket) int64 {
	if b == nil {
		return 0
	}
	var costs int64
	for _, service := range b.Services[frontend.ServicePayment] {
		costs += service.Price.Costs
	}
	return costs
}

func eachPrice(b *frontend.Basket, fn func(price frontend.Price, quantity int64)) {
	if b == nil {
		return
	}
	for _, product := range b.Products {
		fn(product.Price, int64(product.Quantity))
	}
	for _, typ := range []frontend.ServiceType{frontend.ServiceDelivery, frontend.ServicePayment} {
		for _, service := range b.Services[typ] {
			fn(service.Price, 1)
		}
	}
}
