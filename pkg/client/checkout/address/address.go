package address

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/params"
	"github.com/goliatone/go-storefront/pkg/sanitize"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

// Client paths.
const (
	Path         = "checkout/standard/address"
	BillingPath  = Path + "/billing"
	DeliveryPath = Path + "/delivery"
)

// Step is the checkout step name of the address client.
const Step = "address"

// Configuration and session keys.
const (
	OnepageKey      = "client/html/checkout/standard/onepage"
	SessionExtraKey = "client/html/checkout/standard/address/extra"
)

// View keys set by the address client.
const (
	KeyBody          = "addressBody"
	KeyHeader        = "addressHeader"
	KeyCustomer      = "addressCustomerItem"
	KeyPayment       = "addressPaymentItem"
	KeyDeliveryItems = "addressDeliveryItems"
	KeyLanguages     = "addressLanguages"
	KeyCountries     = "addressCountries"
	KeyStates        = "addressStates"
	KeyExtra         = "addressExtra"
	KeyFields        = "addressFields"
)

// Client is the checkout/standard/address client.
type Client struct {
	client.Base
}

var _ client.Client = (*Client)(nil)

// New is the factory constructor of the address step.
func New(sc *storectx.Context, f *client.Factory) client.Client {
	c := &Client{Base: client.NewBase(sc, f, Path, "billing", "delivery")}
	c.SetObject(c)
	return c
}

// Register adds the address step and its sub-clients to f.
func Register(f *client.Factory) error {
	if err := f.Register(Path, client.DefaultName, New); err != nil {
		return err
	}
	if err := f.Register(BillingPath, client.DefaultName, NewBilling); err != nil {
		return err
	}
	return f.Register(DeliveryPath, client.DefaultName, NewDelivery)
}

// Visible reports whether the address step is shown for the active step.
func Visible(v *view.View) bool {
	step := v.String(view.KeyStepActive, Step)
	if step == Step {
		return true
	}
	onepage := v.Configuration().Strings(OnepageKey, nil)
	return slices.Contains(onepage, Step) && slices.Contains(onepage, step)
}

func (c *Client) Body(ctx context.Context, uid string) (string, error) {
	if !Visible(c.View()) {
		return "", nil
	}
	v, err := c.Populate(ctx)
	if err != nil {
		return "", err
	}
	html, err := c.Base.Body(ctx, uid)
	if err != nil {
		return "", err
	}
	v.Set(KeyBody, html)
	return v.Render(c.Template("body", "checkout/standard/address-body-standard"))
}

func (c *Client) Header(ctx context.Context, uid string) (string, error) {
	if !Visible(c.View()) {
		return "", nil
	}
	v, err := c.Populate(ctx)
	if err != nil {
		return "", err
	}
	html, err := c.Base.Header(ctx, uid)
	if err != nil {
		return "", err
	}
	v.Set(KeyHeader, html)
	return v.Render(c.Template("header", "checkout/standard/address-header-standard"))
}

// Process runs the billing and delivery sub-clients, stores the extra
// checkout values and keeps the step active while the basket has no
// address. On failure the step is marked active and the error returned.
func (c *Client) Process(ctx context.Context) error {
	v := c.View()
	if err := c.process(ctx, v); err != nil {
		v.Set(view.KeyStepActive, Step)
		return err
	}
	return nil
}

func (c *Client) process(ctx context.Context, v *view.View) error {
	if err := c.Base.Process(ctx); err != nil {
		return err
	}

	sc := c.Context()
	if raw, ok := v.Params().Get("ca_extra"); ok {
		sc.Sess().Set(SessionExtraKey, extraValues(raw))
	}

	ctl := sc.Controllers.Basket
	if ctl == nil {
		return frontend.NewControllerError("No basket available", nil)
	}
	basket, err := ctl.Get(ctx)
	if err != nil {
		return err
	}
	if !v.Has(view.KeyStepActive) && basket.AddressCount() == 0 {
		v.Set(view.KeyStepActive, Step)
	}
	return nil
}

// AddData adds the customer addresses, languages, countries, states and the
// stored extra values. A visitor without a customer account is not an error.
func (c *Client) AddData(ctx context.Context, v *view.View) (*view.View, error) {
	sc := c.Context()

	if customer, err := lookupCustomer(ctx, sc); err != nil {
		sc.Log().Debug("no customer account for checkout address",
			zap.String("client", Path),
			zap.Error(err),
		)
	} else {
		v.Set(KeyCustomer, customer)
		v.Set(KeyPayment, orderAddress(sc, customer.PaymentAddress))
		v.Set(KeyDeliveryItems, deliveryItems(sc, customer))
	}

	languages, err := c.languages(ctx)
	if err != nil {
		return v, err
	}
	v.Set(KeyLanguages, languages)

	cfg := sc.Conf()
	v.Set(KeyCountries, cfg.Strings("client/html/checkout/standard/address/countries", cfg.Strings("common/countries", []string{})))
	v.Set(KeyStates, states(sc))
	v.Set(KeyFields, addressFields)
	v.Set(KeyExtra, sc.Sess().Get(SessionExtraKey, map[string]string{}))

	return c.Base.AddData(ctx, v)
}

func (c *Client) languages(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	manager := c.Context().Controllers.Locale
	if manager == nil {
		if lang := c.Context().Locale.LanguageID; lang != "" {
			out[lang] = lang
		}
		return out, nil
	}
	locales, err := manager.Search(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, locale := range locales {
		out[locale.LanguageID] = locale.LanguageID
	}
	return out, nil
}

// states returns country → state code → label.
func states(sc *storectx.Context) map[string]map[string]string {
	cfg := sc.Conf()
	raw, ok := cfg.Get("client/html/checkout/standard/address/states")
	if !ok {
		raw, ok = cfg.Get("common/states")
	}
	out := map[string]map[string]string{}
	if !ok {
		return out
	}
	// configuration keys are case-insensitive, codes are stored upper case
	for country, list := range cast.ToStringMap(raw) {
		codes := map[string]string{}
		for code, label := range cast.ToStringMapString(list) {
			codes[strings.ToUpper(code)] = label
		}
		out[strings.ToUpper(country)] = codes
	}
	return out
}

func extraValues(raw any) map[string]string {
	switch value := raw.(type) {
	case map[string]any:
		return sanitize.Values(params.ToStringMap(value))
	case []any:
		values := make(map[string]string, len(value))
		for idx, item := range params.ToStrings(value) {
			values[strconv.Itoa(idx)] = item
		}
		return sanitize.Values(values)
	default:
		list := params.ToStrings(value)
		if len(list) == 0 {
			return map[string]string{}
		}
		return sanitize.Values(map[string]string{"0": list[0]})
	}
}

var errNoCustomer = errors.New("no customer logged in")

func lookupCustomer(ctx context.Context, sc *storectx.Context) (frontend.Customer, error) {
	if sc.UserID == "" {
		return frontend.Customer{}, errNoCustomer
	}
	ctl := sc.Controllers.Customer
	if ctl == nil {
		return frontend.Customer{}, frontend.NewControllerError("No customer controller available", nil)
	}
	return ctl.Get(ctx, sc.UserID, "customer/address")
}

// customerAddress resolves an address option to one of the customer's
// addresses: "like" or the customer id select the payment address.
func customerAddress(ctx context.Context, sc *storectx.Context, option string) (frontend.Address, error) {
	customer, err := lookupCustomer(ctx, sc)
	if err != nil {
		return frontend.Address{}, client.Wrap(err, "Customer address \"%[1]s\" not available", option)
	}
	if option == OptionLike || option == customer.ID {
		return orderAddress(sc, customer.PaymentAddress), nil
	}
	for _, addr := range customer.Addresses {
		if addr.ID == option {
			return orderAddress(sc, addr), nil
		}
	}
	return frontend.Address{}, client.Wrap(frontend.ErrNotFound, "Customer address \"%[1]s\" not available", option)
}

func orderAddress(sc *storectx.Context, src frontend.Address) frontend.Address {
	return frontend.Address{LanguageID: sc.Locale.LanguageID}.CopyFrom(src)
}

func deliveryItems(sc *storectx.Context, customer frontend.Customer) map[string]frontend.Address {
	out := make(map[string]frontend.Address, len(customer.Addresses))
	for _, addr := range customer.Addresses {
		out[addr.ID] = orderAddress(sc, addr)
	}
	return out
}
