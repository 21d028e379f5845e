package view_test

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/i18n"
	"github.com/goliatone/go-storefront/pkg/params"
	"github.com/goliatone/go-storefront/pkg/view"
)

func TestView_KeepsInsertionOrder(t *testing.T) {
	v := view.New()
	v.Set("b", 1)
	v.Set("a", 2)
	v.Set("b", 3)

	if diff := cmp.Diff([]string{"b", "a"}, v.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if got, _ := v.Get("b"); got != 3 {
		t.Fatalf("expected overwritten value 3, got %v", got)
	}

	v.Delete("b")
	if v.Has("b") {
		t.Fatalf("expected b removed")
	}
	if diff := cmp.Diff([]string{"a"}, v.Keys()); diff != "" {
		t.Fatalf("keys after delete mismatch (-want +got):\n%s", diff)
	}
}

func TestView_AppendMergesMessages(t *testing.T) {
	v := view.New()
	v.Append(view.KeyErrorList, "first", "  ")
	v.Append(view.KeyErrorList, " second ", "first")

	want := []string{"first", "second", "first"}
	if diff := cmp.Diff(want, v.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestView_ParamsAndConfig(t *testing.T) {
	v := view.New(
		view.WithParams(params.FromMap(map[string]any{"b_action": "add"})),
		view.WithConfig(config.FromMap(map[string]any{"client/html/basket/standard/check": 2})),
	)

	if got := v.Param("b_action", ""); got != "add" {
		t.Fatalf("unexpected param %q", got)
	}
	if got := v.Param("missing", "def"); got != "def" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := v.Config("client/html/basket/standard/check", "1"); got != "2" {
		t.Fatalf("unexpected config %q", got)
	}
}

func TestDefaultURLBuilder(t *testing.T) {
	b := view.DefaultURLBuilder{Base: "/shop"}

	got := b.URL("", "catalog", "detail", map[string]any{"d_prodid": "12", "d_name": "mug"}, nil)
	if want := "/shop/catalog/detail?d_name=mug&d_prodid=12"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	got = b.URL("", "", "", nil, map[string]any{"base": ""})
	if got != "/" {
		t.Fatalf("expected root path, got %q", got)
	}
}

func TestView_RenderUsesResolverAndHelpers(t *testing.T) {
	renderer := &recordingRenderer{output: "ok"}
	v := view.New(
		view.WithRenderer(renderer),
		view.WithTranslator(i18n.TranslatorFunc(func(domain, msg string, _ ...any) string {
			return domain + ":" + msg
		})),
		view.WithTemplateResolver(func(name string) string { return "themed/" + name }),
		view.WithGlobals(map[string]any{"theme": "classic"}),
	)
	v.Set("standardBasket", "basket")

	out, err := v.Render("basket/standard/body-standard")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected output %q", out)
	}
	if renderer.name != "themed/basket/standard/body-standard" {
		t.Fatalf("resolver not applied, got %q", renderer.name)
	}

	data := renderer.data.(map[string]any)
	if data["standardBasket"] != "basket" || data["theme"] != "classic" {
		t.Fatalf("missing values in render data: %v", data)
	}
	translate, ok := data["translate"].(func(string, string) string)
	if !ok {
		t.Fatalf("expected translate helper, got %T", data["translate"])
	}
	if got := translate("client", "Basket"); got != "client:Basket" {
		t.Fatalf("unexpected translation %q", got)
	}
}

func TestView_RenderWithoutRenderer(t *testing.T) {
	if _, err := view.New().Render("x"); err != view.ErrNoRenderer {
		t.Fatalf("expected ErrNoRenderer, got %v", err)
	}
}

type recordingRenderer struct {
	name   string
	data   any
	output string
}

func (r *recordingRenderer) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	r.name = name
	r.data = data
	return r.output, nil
}
