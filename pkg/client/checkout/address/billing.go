package address

import (
	"context"
	"strings"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

var billingForm = form{
	kind:      "billing",
	param:     "ca_billing",
	mandatory: []string{"firstname", "lastname", "address1", "postal", "city", "email"},
}

// Billing sets the payment address of the basket from ca_billingoption:
// a customer address id, "like" for the customer's own address, or "new"
// for the ca_billing fields.
type Billing struct {
	client.Base
}

// NewBilling is the factory constructor of the billing sub-client.
func NewBilling(sc *storectx.Context, f *client.Factory) client.Client {
	c := &Billing{Base: client.NewBase(sc, f, BillingPath)}
	c.SetObject(c)
	return c
}

func (c *Billing) Body(ctx context.Context, uid string) (string, error) {
	v, err := c.Populate(ctx)
	if err != nil {
		return "", err
	}
	return v.Render(c.Template("body", "checkout/standard/address-billing-body-standard"))
}

func (c *Billing) Process(ctx context.Context) error {
	v := c.View()
	option := strings.TrimSpace(v.Param("ca_billingoption", ""))
	if option != "" {
		if err := c.apply(ctx, v, option); err != nil {
			return err
		}
	}
	return c.Base.Process(ctx)
}

func (c *Billing) apply(ctx context.Context, v *view.View, option string) error {
	sc := c.Context()
	ctl, err := basketController(sc)
	if err != nil {
		return err
	}

	var addr frontend.Address
	if option == OptionNew {
		addr, err = billingForm.read(sc, v)
	} else {
		addr, err = customerAddress(ctx, sc, option)
	}
	if err != nil {
		return err
	}
	return ctl.AddAddress(ctx, frontend.AddressPayment, addr)
}

func (c *Billing) AddData(ctx context.Context, v *view.View) (*view.View, error) {
	billingForm.addData(c.Context(), v, v.Param("ca_billingoption", ""))
	return c.Base.AddData(ctx, v)
}
