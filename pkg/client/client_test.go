package client_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/i18n"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

func TestFactory_PopulatesOnceAndRunsSubClientsInOrder(t *testing.T) {
	var calls []string
	factory := client.NewFactory(nil)
	factory.MustRegister("test/standard", "standard", newStub("test/standard", &calls, "first", "second"))
	factory.MustRegister("test/standard/first", "standard", newStub("test/standard/first", &calls))
	factory.MustRegister("test/standard/second", "standard", newStub("test/standard/second", &calls))

	sc := &storectx.Context{Config: config.FromMap(nil)}
	c, err := factory.Create(sc, "test/standard", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	body, err := c.Body(context.Background(), "")
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	if _, err := c.Header(context.Background(), ""); err != nil {
		t.Fatalf("header: %v", err)
	}
	if _, err := c.Body(context.Background(), ""); err != nil {
		t.Fatalf("second body: %v", err)
	}

	wantCalls := []string{"add:test/standard", "add:test/standard/first", "add:test/standard/second"}
	if diff := cmp.Diff(wantCalls, calls); diff != "" {
		t.Fatalf("AddData calls mismatch (-want +got):\n%s", diff)
	}
	if body != "test/standard,test/standard/first,test/standard/second" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestFactory_SubpartsFromConfig(t *testing.T) {
	var calls []string
	factory := client.NewFactory(nil)
	factory.MustRegister("test/standard", "standard", newStub("test/standard", &calls, "first", "second"))
	factory.MustRegister("test/standard/second", "standard", newStub("test/standard/second", &calls))

	sc := &storectx.Context{Config: config.FromMap(map[string]any{
		"client/html/test/standard/standard/subparts": []string{"second"},
	})}
	c, err := factory.Create(sc, "test/standard", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := c.Body(context.Background(), ""); err != nil {
		t.Fatalf("body: %v", err)
	}

	wantCalls := []string{"add:test/standard", "add:test/standard/second"}
	if diff := cmp.Diff(wantCalls, calls); diff != "" {
		t.Fatalf("AddData calls mismatch (-want +got):\n%s", diff)
	}
}

func TestFactory_ImplementationNameFromConfig(t *testing.T) {
	var calls []string
	factory := client.NewFactory(nil)
	factory.MustRegister("test/standard", "standard", newStub("test/standard", &calls))
	factory.MustRegister("test/standard", "Custom", newStub("test/custom", &calls))

	sc := &storectx.Context{Config: config.FromMap(map[string]any{
		"client/html/test/standard/name": "Custom",
	})}
	c, err := factory.Create(sc, "test/standard", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Path() != "test/custom" {
		t.Fatalf("expected configured implementation, got %s", c.Path())
	}

	_, err = factory.Create(sc, "test/standard", "../evil")
	var clientErr *client.Error
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected client error for invalid name, got %v", err)
	}

	_, err = factory.Create(sc, "test/missing", "standard")
	if !errors.Is(err, client.ErrUnknownClient) {
		t.Fatalf("expected ErrUnknownClient, got %v", err)
	}
}

func TestDecorators_OrderIsExcludesGlobalLocal(t *testing.T) {
	var calls []string
	registry := client.NewDecoratorRegistry()
	// registration order deliberately differs from the resolved order
	registry.MustRegisterLocal("test", "l", tagDecorator("l"))
	registry.MustRegisterCommon("c", tagDecorator("c"))
	registry.MustRegisterCommon("b", tagDecorator("b"))
	registry.MustRegisterCommon("a", tagDecorator("a"))

	factory := client.NewFactory(registry)
	factory.MustRegister("test/standard", "standard", newStub("test/standard", &calls))

	sc := &storectx.Context{Config: config.FromMap(map[string]any{
		"client/html/common/decorators/default":        []string{"a", "b"},
		"client/html/test/standard/decorators/excludes": []string{"a"},
		"client/html/test/standard/decorators/global":   []string{"c"},
		"client/html/test/standard/decorators/local":    []string{"l"},
	})}

	chain, err := registry.Resolve(sc, "test/standard")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	names := make([]string, 0, len(chain))
	for _, step := range chain {
		names = append(names, step.Name)
	}
	if diff := cmp.Diff([]string{"b", "c", "l"}, names); diff != "" {
		t.Fatalf("chain mismatch (-want +got):\n%s", diff)
	}

	c, err := factory.Create(sc, "test/standard", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	body, err := c.Body(context.Background(), "")
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	if body != "test/standard|b|c|l" {
		t.Fatalf("unexpected decorated body %q", body)
	}
}

func TestDecorators_UnknownNameIsClientError(t *testing.T) {
	registry := client.NewDecoratorRegistry()
	registry.MustRegisterCommon("a", tagDecorator("a"))

	sc := &storectx.Context{Config: config.FromMap(map[string]any{
		"client/html/test/standard/decorators/local": []string{"a"},
	})}
	_, err := registry.Resolve(sc, "test/standard")

	var clientErr *client.Error
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected client error for local lookup of common decorator, got %v", err)
	}
}

func TestBase_HandleErrorTranslatesByDomain(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	sc := &storectx.Context{
		Config: config.FromMap(nil),
		Logger: zap.New(core),
		I18n: i18n.TranslatorFunc(func(domain, msg string, args ...any) string {
			return domain + ":" + fmt.Sprintf(msg, args...)
		}),
	}
	base := client.NewBase(sc, nil, "test/standard")
	v := view.New()

	base.HandleError(v, client.Errorf("Missing %[1]s", "city"))
	base.HandleError(v, fmt.Errorf("wrapped: %w", frontend.NewControllerError("No basket available", nil)))
	base.HandleError(v, frontend.NewDomainError("Basket is empty", nil))
	base.HandleError(v, frontend.NewPluginError("Checks failed", map[string]map[string]string{
		"product": {"1": "stock.notenough"},
	}))
	base.HandleError(v, errors.New("boom"))

	want := []string{
		"client:Missing city",
		"controller/frontend:No basket available",
		"mshop:Basket is empty",
		"mshop:Checks failed",
		"mshop/code:stock.notenough",
		"client:" + client.MsgNonRecoverable,
	}
	if diff := cmp.Diff(want, v.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if !v.Has(view.KeyErrorCodes) {
		t.Fatalf("expected error codes on view")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected exactly one logged error, got %d", logs.Len())
	}
}

type stubClient struct {
	client.Base
	calls *[]string
}

func newStub(path string, calls *[]string, subparts ...string) client.Constructor {
	return func(sc *storectx.Context, f *client.Factory) client.Client {
		c := &stubClient{Base: client.NewBase(sc, f, path, subparts...), calls: calls}
		c.SetObject(c)
		return c
	}
}

func (c *stubClient) AddData(ctx context.Context, v *view.View) (*view.View, error) {
	*c.calls = append(*c.calls, "add:"+c.Path())
	v.Set(c.Path(), true)
	return c.Base.AddData(ctx, v)
}

func (c *stubClient) Body(ctx context.Context, _ string) (string, error) {
	v, err := c.Populate(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(v.Keys(), ","), nil
}

func (c *stubClient) Header(ctx context.Context, _ string) (string, error) {
	if _, err := c.Populate(ctx); err != nil {
		return "", err
	}
	return "", nil
}

type tagged struct {
	client.Decorator
	tag string
}

func tagDecorator(tag string) client.DecoratorConstructor {
	return func(inner client.Client, _ *storectx.Context) client.Client {
		return &tagged{Decorator: client.NewDecorator(inner), tag: tag}
	}
}

func (d *tagged) Body(ctx context.Context, uid string) (string, error) {
	out, err := d.Inner().Body(ctx, uid)
	return out + "|" + d.tag, err
}
