package address

import (
	"context"
	"strings"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

var deliveryForm = form{
	kind:      "delivery",
	param:     "ca_delivery",
	mandatory: []string{"firstname", "lastname", "address1", "postal", "city"},
}

// Delivery sets the delivery address of the basket from ca_deliveryoption:
// "like" or empty ships to the billing address and removes any delivery
// address, a customer address id copies that address, "new" uses the
// ca_delivery fields.
type Delivery struct {
	client.Base
}

// NewDelivery is the factory constructor of the delivery sub-client.
func NewDelivery(sc *storectx.Context, f *client.Factory) client.Client {
	c := &Delivery{Base: client.NewBase(sc, f, DeliveryPath)}
	c.SetObject(c)
	return c
}

func (c *Delivery) Body(ctx context.Context, uid string) (string, error) {
	v, err := c.Populate(ctx)
	if err != nil {
		return "", err
	}
	return v.Render(c.Template("body", "checkout/standard/address-delivery-body-standard"))
}

func (c *Delivery) Process(ctx context.Context) error {
	v := c.View()
	if v.Params().Has("ca_deliveryoption") {
		if err := c.apply(ctx, v, strings.TrimSpace(v.Param("ca_deliveryoption", ""))); err != nil {
			return err
		}
	}
	return c.Base.Process(ctx)
}

func (c *Delivery) apply(ctx context.Context, v *view.View, option string) error {
	sc := c.Context()
	ctl, err := basketController(sc)
	if err != nil {
		return err
	}

	var addr frontend.Address
	switch option {
	case "", OptionLike:
		return ctl.DeleteAddress(ctx, frontend.AddressDelivery)
	case OptionNew:
		addr, err = deliveryForm.read(sc, v)
	default:
		addr, err = customerAddress(ctx, sc, option)
	}
	if err != nil {
		return err
	}
	return ctl.AddAddress(ctx, frontend.AddressDelivery, addr)
}

func (c *Delivery) AddData(ctx context.Context, v *view.View) (*view.View, error) {
	option := v.Param("ca_deliveryoption", OptionLike)
	if option == "" {
		option = OptionLike
	}
	deliveryForm.addData(c.Context(), v, option)
	return c.Base.AddData(ctx, v)
}
