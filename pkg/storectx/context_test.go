package storectx_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/i18n"
	"github.com/goliatone/go-storefront/pkg/storectx"
)

type recordingCache struct {
	calls [][]string
}

func (c *recordingCache) Invalidate(tags ...string) {
	c.calls = append(c.calls, tags)
}

func TestContext_NilSafeAccessors(t *testing.T) {
	var sc *storectx.Context

	if sc.Log() == nil {
		t.Fatalf("expected nop logger")
	}
	if got := sc.Conf().String("client/html/basket/standard/check", "1"); got != "1" {
		t.Fatalf("expected fallback from empty config, got %q", got)
	}
	if got := sc.Translate(i18n.DomainClient, "Invalid values in fields: %[1]s", "city"); got != "Invalid values in fields: city" {
		t.Fatalf("expected passthrough translation, got %q", got)
	}
	sc.InvalidateCache("basket")
}

func TestContext_SessionIsCreatedOnce(t *testing.T) {
	sc := &storectx.Context{}
	sc.Sess().Set("client/html/checkout/standard/address/extra", map[string]any{"comment": "ring twice"})

	got := sc.Sess().Get("client/html/checkout/standard/address/extra", nil)
	if diff := cmp.Diff(map[string]any{"comment": "ring twice"}, got); diff != "" {
		t.Fatalf("session value mismatch (-want +got):\n%s", diff)
	}
}

func TestContext_InvalidateCache(t *testing.T) {
	cache := &recordingCache{}
	sc := &storectx.Context{Cache: cache, Config: config.FromMap(nil)}

	sc.InvalidateCache()
	sc.InvalidateCache("basket")

	if diff := cmp.Diff([][]string{{"basket"}}, cache.calls); diff != "" {
		t.Fatalf("invalidate calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMemorySession_NilDeletes(t *testing.T) {
	s := storectx.NewMemorySession()
	s.Set(" step ", "address")
	if got := s.Get("step", ""); got != "address" {
		t.Fatalf("expected trimmed key lookup, got %v", got)
	}
	s.Set("step", nil)
	if got := s.Get("step", "none"); got != "none" {
		t.Fatalf("expected fallback after delete, got %v", got)
	}
}

func TestSite_ConfigValue(t *testing.T) {
	site := storectx.Site{Code: "default", Config: map[string]any{"stocktype": "warehouse"}}
	if value, ok := site.ConfigValue("stocktype"); !ok || value != "warehouse" {
		t.Fatalf("unexpected site config %v %v", value, ok)
	}
	if _, ok := (storectx.Site{}).ConfigValue("stocktype"); ok {
		t.Fatalf("expected missing value for empty site")
	}
}
