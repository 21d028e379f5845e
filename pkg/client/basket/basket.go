package basket

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

// Path is the client path of the basket.
const Path = "basket/standard"

// CacheTag is invalidated whenever the basket changes.
const CacheTag = "basket"

// View keys set by the basket client.
const (
	KeyBody          = "standardBody"
	KeyHeader        = "standardHeader"
	KeyBackURL       = "standardBackUrl"
	KeyBasket        = "standardBasket"
	KeyTaxRates      = "standardTaxRates"
	KeyNamedTaxes    = "standardNamedTaxes"
	KeyCostsDelivery = "standardCostsDelivery"
	KeyCostsPayment  = "standardCostsPayment"
	KeyCheckout      = "standardCheckout"
)

// Check levels of client/html/basket/standard/check.
const (
	CheckNone     = 0
	CheckAlways   = 1
	CheckOnDemand = 2
)

// Client is the basket/standard client.
type Client struct {
	client.Base
}

var _ client.Client = (*Client)(nil)

// New is the factory constructor of the basket client.
func New(sc *storectx.Context, f *client.Factory) client.Client {
	c := &Client{Base: client.NewBase(sc, f, Path)}
	c.SetObject(c)
	return c
}

// Register adds the basket client to f.
func Register(f *client.Factory) error {
	return f.Register(Path, client.DefaultName, New)
}

// Body renders the basket. Errors are shown in the error list and the
// template is rendered regardless.
func (c *Client) Body(ctx context.Context, uid string) (string, error) {
	v := c.View()

	if populated, err := c.Populate(ctx); err != nil {
		c.HandleError(v, err)
	} else {
		v = populated
		html, err := c.Base.Body(ctx, uid)
		if err != nil {
			c.HandleError(v, err)
		} else {
			v.Set(KeyBody, html)
		}
	}

	return v.Render(c.Template("body", "basket/standard/body-standard"))
}

// Header renders the header part. Any failure is logged and yields "".
func (c *Client) Header(ctx context.Context, uid string) (string, error) {
	v, err := c.Populate(ctx)
	if err == nil {
		var html string
		if html, err = c.Base.Header(ctx, uid); err == nil {
			v.Set(KeyHeader, html)
		}
	}
	if err != nil {
		c.Context().Log().Error("basket header failed", zap.String("client", Path), zap.Error(err))
		return "", nil
	}

	out, err := v.Render(c.Template("header", "basket/standard/header-standard"))
	if err != nil {
		c.Context().Log().Error("basket header render failed", zap.String("client", Path), zap.Error(err))
		return "", nil
	}
	return out, nil
}

// Process applies the b_action of the request. The basket is saved even when
// processing fails so plugin changes persist.
func (c *Client) Process(ctx context.Context) error {
	v := c.View()

	ctl := c.Context().Controllers.Basket
	if ctl == nil {
		c.HandleError(v, errNoBasket)
		return nil
	}

	if err := c.process(ctx, v, ctl); err != nil {
		c.HandleError(v, err)
	}
	if err := ctl.Save(ctx); err != nil {
		c.HandleError(v, err)
	}
	return nil
}

func (c *Client) process(ctx context.Context, v *view.View, ctl frontend.BasketController) error {
	var (
		changed int
		err     error
	)

	switch v.Param("b_action", "") {
	case "add":
		changed, err = c.addProducts(ctx, v, ctl)
	case "coupon-delete":
		changed, err = deleteCoupon(ctx, v, ctl)
	case "delete":
		changed, err = deleteProducts(ctx, v, ctl)
	default:
		changed, err = updateProducts(ctx, v, ctl)
		if err == nil {
			var added int
			added, err = addCoupon(ctx, v, ctl)
			changed += added
		}
	}

	if changed > 0 {
		c.Context().InvalidateCache(CacheTag)
	}
	if err != nil {
		return err
	}

	if err := c.Base.Process(ctx); err != nil {
		return err
	}
	return c.check(ctx, v, ctl)
}

// check runs the product checks according to the configured level and marks
// the basket ready for checkout when they pass.
func (c *Client) check(ctx context.Context, v *view.View, ctl frontend.BasketController) error {
	switch c.Context().Conf().Int(c.ConfigKey("check"), CheckAlways) {
	case CheckOnDemand:
		if v.Params().Int("b_check", 0) == 0 {
			return nil
		}
		fallthrough
	case CheckAlways:
		if err := ctl.Check(ctx, frontend.PartProduct); err != nil {
			return err
		}
		fallthrough
	default:
		v.Set(KeyCheckout, true)
	}
	return nil
}

// AddData sets the back link, the basket and its summaries.
func (c *Client) AddData(ctx context.Context, v *view.View) (*view.View, error) {
	c.addBackURL(v)

	ctl := c.Context().Controllers.Basket
	if ctl == nil {
		return v, errNoBasket
	}
	basket, err := ctl.Get(ctx)
	if err != nil {
		return v, err
	}

	v.Set(KeyBasket, basket)
	v.Set(KeyTaxRates, TaxRates(basket))
	v.Set(KeyNamedTaxes, NamedTaxes(basket))
	v.Set(KeyCostsDelivery, CostsDelivery(basket))
	v.Set(KeyCostsPayment, CostsPayment(basket))

	return c.Base.AddData(ctx, v)
}

// addBackURL links back to the last visited product, or the last list page.
func (c *Client) addBackURL(v *view.View) {
	sc := c.Context()
	site := sc.Locale.Site.Code
	cfg := sc.Conf()

	page := "detail"
	raw := sc.Sess().Get(fmt.Sprintf(SessionDetailParams, site), nil)
	if raw == nil {
		page = "lists"
		raw = sc.Sess().Get(fmt.Sprintf(SessionListsParams, site), nil)
	}

	query, err := cast.ToStringMapE(raw)
	if err != nil || len(query) == 0 {
		return
	}

	action := "detail"
	if page == "lists" {
		action = "list"
	}
	prefix := "client/html/catalog/" + page + "/url/"

	urlConfig := map[string]any{}
	if value, ok := cfg.Get(prefix + "config"); ok {
		urlConfig = cast.ToStringMap(value)
	}

	v.Set(KeyBackURL, v.URL(
		cfg.String(prefix+"target", ""),
		cfg.String(prefix+"controller", "catalog"),
		cfg.String(prefix+"action", action),
		query,
		urlConfig,
	))
}

// Session keys holding the parameters of the last catalog pages per site.
const (
	SessionDetailParams = "storefront/catalog/detail/params/last/%s"
	SessionListsParams  = "storefront/catalog/lists/params/last/%s"
)

var errNoBasket = frontend.NewControllerError("No basket available", nil)
