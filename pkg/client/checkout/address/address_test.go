package address_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/client/checkout/address"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/testsupport"
	"github.com/goliatone/go-storefront/pkg/view"
)

func newAddress(t *testing.T, fx *testsupport.Fixture, values map[string]any) client.Client {
	t.Helper()
	factory := client.NewFactory(nil)
	if err := address.Register(factory); err != nil {
		t.Fatalf("register: %v", err)
	}
	c, err := factory.Create(fx.Context, address.Path, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c.SetView(fx.View(values))
	return c
}

func withCustomer(fx *testsupport.Fixture) frontend.Customer {
	customer := frontend.Customer{
		ID:    "c1",
		Code:  "jane@example.com",
		Label: "Jane Doe",
		PaymentAddress: frontend.Address{
			ID: "c1", FirstName: "Jane", LastName: "Doe", Address1: "Main St 1",
			Postal: "10115", City: "Berlin", CountryID: "DE", Email: "jane@example.com",
		},
		Addresses: []frontend.Address{{
			ID: "a7", FirstName: "Jane", LastName: "Doe", Address1: "Dock 9",
			Postal: "20457", City: "Hamburg", CountryID: "DE",
		}},
	}
	fx.Context.UserID = customer.ID
	fx.Context.Controllers.Customer = &testsupport.StaticCustomers{
		Customers: map[string]frontend.Customer{customer.ID: customer},
	}
	return customer
}

func TestProcess_MissingBillingFieldsMarksStepAndReturnsError(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	c := newAddress(t, fx, map[string]any{
		"ca_billingoption": "new",
		"ca_billing":       map[string]any{"firstname": "Jane", "city": "Berlin"},
	})

	err := c.Process(context.Background())
	var clientErr *client.Error
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected client error, got %v", err)
	}
	if clientErr.Msg != "Mandatory fields are missing: %[1]s" {
		t.Fatalf("unexpected message %q", clientErr.Msg)
	}
	if diff := cmp.Diff([]any{"address1, email, lastname, postal"}, clientErr.Args); diff != "" {
		t.Fatalf("missing fields mismatch (-want +got):\n%s", diff)
	}

	v := c.View()
	if got := v.String(view.KeyStepActive, ""); got != address.Step {
		t.Fatalf("expected step %q, got %q", address.Step, got)
	}
	problems, _ := v.Value("billingError", nil).(map[string]string)
	if problems["email"] != address.FieldMissing {
		t.Fatalf("expected billing errors on view, got %v", problems)
	}
	if n := len(fx.Basket.CallsTo("AddAddress")); n != 0 {
		t.Fatalf("expected no address stored, got %d", n)
	}
}

func TestProcess_ReraisesGenericErrors(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	boom := errors.New("session store unavailable")
	fx.Basket.Fail["Get"] = boom

	c := newAddress(t, fx, nil)
	if err := c.Process(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if got := c.View().String(view.KeyStepActive, ""); got != address.Step {
		t.Fatalf("expected step marked active, got %q", got)
	}
}

func TestProcess_StepActiveOnlyWithoutAddresses(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	c := newAddress(t, fx, nil)
	if err := c.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := c.View().String(view.KeyStepActive, ""); got != address.Step {
		t.Fatalf("expected address step for empty basket, got %q", got)
	}

	fx = testsupport.NewFixture(nil)
	fx.Basket.Basket.Addresses[frontend.AddressPayment] = []frontend.Address{{FirstName: "Jane"}}
	c = newAddress(t, fx, nil)
	if err := c.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if c.View().Has(view.KeyStepActive) {
		t.Fatalf("step must stay unset when the basket has an address")
	}
}

func TestProcess_StoresSanitizedExtra(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	c := newAddress(t, fx, map[string]any{
		"ca_extra": map[string]any{"comment": "<script>x</script>ring twice", "empty": ""},
	})
	if err := c.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	got := fx.Context.Sess().Get(address.SessionExtraKey, nil)
	if diff := cmp.Diff(map[string]string{"comment": "ring twice"}, got); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}
}

func TestBilling_CopiesCustomerAddress(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	customer := withCustomer(fx)

	c := newAddress(t, fx, map[string]any{"ca_billingoption": "like"})
	if err := c.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	calls := fx.Basket.CallsTo("AddAddress")
	if len(calls) != 1 || calls[0].Args[0] != frontend.AddressPayment {
		t.Fatalf("expected payment address stored, got %+v", calls)
	}
	got := calls[0].Args[1].(frontend.Address)
	if got.ID != "" || got.AddressID != customer.ID || got.City != "Berlin" || got.LanguageID != "en" {
		t.Fatalf("unexpected order address %+v", got)
	}
}

func TestBilling_NewAddress(t *testing.T) {
	fx := testsupport.NewFixture(map[string]any{
		"client/html/checkout/standard/address/validate/postal": `^[0-9]{5}$`,
	})
	c := newAddress(t, fx, map[string]any{
		"ca_billingoption": "new",
		"ca_billing": map[string]any{
			"firstname": "Jane", "lastname": "Doe", "address1": "Main St 1",
			"postal": "10115", "city": "Berlin", "email": "jane@example.com", "countryid": "de",
		},
	})
	if err := c.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	calls := fx.Basket.CallsTo("AddAddress")
	if len(calls) != 1 {
		t.Fatalf("expected one address, got %d", len(calls))
	}
	got := calls[0].Args[1].(frontend.Address)
	if got.CountryID != "DE" || got.LanguageID != "en" || got.Postal != "10115" {
		t.Fatalf("unexpected address %+v", got)
	}
}

func TestBilling_InvalidField(t *testing.T) {
	fx := testsupport.NewFixture(map[string]any{
		"client/html/checkout/standard/address/validate/postal": `^[0-9]{5}$`,
	})
	c := newAddress(t, fx, map[string]any{
		"ca_billingoption": "new",
		"ca_billing": map[string]any{
			"firstname": "Jane", "lastname": "Doe", "address1": "Main St 1",
			"postal": "ABC", "city": "Berlin", "email": "jane@example.com",
		},
	})
	err := c.Process(context.Background())
	var clientErr *client.Error
	if !errors.As(err, &clientErr) || clientErr.Msg != "Invalid values in fields: %[1]s" {
		t.Fatalf("expected invalid field error, got %v", err)
	}
}

func TestDelivery_Options(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	withCustomer(fx)

	c := newAddress(t, fx, map[string]any{"ca_deliveryoption": "like"})
	if err := c.Process(context.Background()); err != nil {
		t.Fatalf("process like: %v", err)
	}
	if n := len(fx.Basket.CallsTo("DeleteAddress")); n != 1 {
		t.Fatalf("expected delivery address removed, got %d", n)
	}

	c = newAddress(t, fx, map[string]any{"ca_deliveryoption": "a7"})
	if err := c.Process(context.Background()); err != nil {
		t.Fatalf("process id: %v", err)
	}
	calls := fx.Basket.CallsTo("AddAddress")
	if len(calls) != 1 || calls[0].Args[0] != frontend.AddressDelivery {
		t.Fatalf("expected delivery address stored, got %+v", calls)
	}
	if got := calls[0].Args[1].(frontend.Address); got.AddressID != "a7" || got.City != "Hamburg" {
		t.Fatalf("unexpected delivery address %+v", got)
	}

	c = newAddress(t, fx, map[string]any{"ca_deliveryoption": "unknown"})
	if err := c.Process(context.Background()); !errors.Is(err, frontend.ErrNotFound) {
		t.Fatalf("expected not found for unknown address, got %v", err)
	}
}

func TestAddData_WithoutCustomerIsRecoverable(t *testing.T) {
	fx := testsupport.NewFixture(map[string]any{
		"common/countries": []string{"DE", "AT"},
		"common/states":    map[string]any{"DE": map[string]any{"BE": "Berlin"}},
	})
	fx.Context.Controllers.Locale = &testsupport.StaticLocales{Locales: []frontend.Locale{
		{LanguageID: "en", Status: 1},
		{LanguageID: "de", Status: 1, Position: 1},
		{LanguageID: "fr", Status: 0},
	}}
	fx.Context.Sess().Set(address.SessionExtraKey, map[string]string{"comment": "hi"})

	c := newAddress(t, fx, nil)
	v, err := c.AddData(context.Background(), c.View())
	if err != nil {
		t.Fatalf("add data: %v", err)
	}

	if v.Has(address.KeyCustomer) {
		t.Fatalf("anonymous visitor must not have a customer item")
	}
	if diff := cmp.Diff(map[string]string{"en": "en", "de": "de"}, v.Value(address.KeyLanguages, nil)); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"DE", "AT"}, v.Value(address.KeyCountries, nil)); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
	wantStates := map[string]map[string]string{"DE": {"BE": "Berlin"}}
	if diff := cmp.Diff(wantStates, v.Value(address.KeyStates, nil)); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"comment": "hi"}, v.Value(address.KeyExtra, nil)); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}
	if !v.Has("billingMandatory") || !v.Has("deliveryMandatory") {
		t.Fatalf("expected sub-client data on view")
	}
}

func TestAddData_CopiesCustomerAddresses(t *testing.T) {
	fx := testsupport.NewFixture(map[string]any{
		"client/html/checkout/standard/address/countries": []string{"DE"},
	})
	withCustomer(fx)

	c := newAddress(t, fx, nil)
	v, err := c.AddData(context.Background(), c.View())
	if err != nil {
		t.Fatalf("add data: %v", err)
	}
	payment := v.Value(address.KeyPayment, nil).(frontend.Address)
	if payment.AddressID != "c1" || payment.ID != "" {
		t.Fatalf("unexpected payment item %+v", payment)
	}
	items := v.Value(address.KeyDeliveryItems, nil).(map[string]frontend.Address)
	if items["a7"].AddressID != "a7" {
		t.Fatalf("unexpected delivery items %+v", items)
	}
	if diff := cmp.Diff([]string{"DE"}, v.Value(address.KeyCountries, nil)); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
}

func TestBody_RendersOnlyForActiveStep(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	c := newAddress(t, fx, nil)
	c.View().Set(view.KeyStepActive, "payment")

	out, err := c.Body(context.Background(), "")
	if err != nil || out != "" {
		t.Fatalf("expected hidden step, got %q (%v)", out, err)
	}
	if header, _ := c.Header(context.Background(), ""); header != "" {
		t.Fatalf("expected hidden header, got %q", header)
	}

	fx = testsupport.NewFixture(map[string]any{
		address.OnepageKey: []string{"address", "payment"},
	})
	c = newAddress(t, fx, nil)
	c.View().Set(view.KeyStepActive, "payment")

	out, err = c.Body(context.Background(), "")
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	if out != "checkout/standard/address-body-standard" {
		t.Fatalf("unexpected body %q", out)
	}

	var names []string
	for _, r := range fx.Renderer.Renders {
		names = append(names, r.Name)
	}
	want := []string{
		"checkout/standard/address-billing-body-standard",
		"checkout/standard/address-delivery-body-standard",
		"checkout/standard/address-body-standard",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("render order mismatch (-want +got):\n%s", diff)
	}
	body, _ := fx.Renderer.Last().Data[address.KeyBody].(string)
	if body != want[0]+want[1] {
		t.Fatalf("expected sub-client bodies in addressBody, got %q", body)
	}
}

func TestHeader_DefaultsToAddressStep(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	c := newAddress(t, fx, nil)

	out, err := c.Header(context.Background(), "")
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if out != "checkout/standard/address-header-standard" {
		t.Fatalf("expected header without a step set, got %q", out)
	}
	if _, ok := fx.Renderer.Last().Data[address.KeyHeader]; !ok {
		t.Fatalf("expected %s on the header view", address.KeyHeader)
	}

	fx = testsupport.NewFixture(nil)
	c = newAddress(t, fx, nil)
	c.View().Set(view.KeyStepActive, "delivery")

	out, err = c.Header(context.Background(), "")
	if err != nil || out != "" {
		t.Fatalf("expected no header for another step, got %q (%v)", out, err)
	}
	if n := len(fx.Renderer.Renders); n != 0 {
		t.Fatalf("expected no renders, got %d", n)
	}
}
