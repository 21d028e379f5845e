package storefront

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/testsupport"
)

func TestNewFactoryRegistersClients(t *testing.T) {
	f, err := NewFactory()
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	fx := testsupport.NewFixture(nil)
	for _, path := range []string{BasketPath, AddressPath, StockPath} {
		if _, err := f.Create(fx.Context, path, ""); err != nil {
			t.Fatalf("create %s: %v", path, err)
		}
	}
	if _, err := f.Create(fx.Context, "catalog/detail", ""); err == nil {
		t.Fatalf("expected error for unregistered client")
	}
}

func TestRenderClient_ReportsProcessErrorsAndRenders(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	fx.Basket.Fail["AddCoupon"] = frontend.NewDomainError("Coupon code is invalid", frontend.ErrNotFound)

	page, err := RenderClient(context.Background(), MustNewFactory(), fx.Context, fx.View(map[string]any{
		"b_coupon": "NOPE",
	}), BasketPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if page.Body != "basket/standard/body-standard" || page.Header != "basket/standard/header-standard" {
		t.Fatalf("unexpected page output %q / %q", page.Header, page.Body)
	}
	if diff := cmp.Diff([]string{"Coupon code is invalid"}, page.View.Errors()); diff != "" {
		t.Fatalf("error list mismatch (-want +got):\n%s", diff)
	}
	if calls := fx.Basket.CallsTo("Save"); len(calls) != 1 {
		t.Fatalf("expected basket to be saved once, got %d", len(calls))
	}
}

func TestRenderClient_RequiresFactory(t *testing.T) {
	fx := testsupport.NewFixture(nil)
	if _, err := RenderClient(context.Background(), nil, fx.Context, fx.View(nil), StockPath); err == nil {
		t.Fatalf("expected error without factory")
	}
}
