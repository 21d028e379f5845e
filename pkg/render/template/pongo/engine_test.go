package pongo_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-storefront/pkg/render/template/pongo"
)

type cartLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"basket/body.tpl": &fstest.MapFile{Data: []byte(
			`{% for line in lines %}<li>{{ line.name }} x{{ line.quantity }}</li>{% endfor %}`,
		)},
		"price.tpl": &fstest.MapFile{Data: []byte(`{{ amount|money }}`)},
		"global.tpl": &fstest.MapFile{Data: []byte(`{{ site }}:{{ shout("hi") }}`)},
		"escape.tpl": &fstest.MapFile{Data: []byte(`<p>{{ msg }}</p>`)},
	}
}

func TestEngine_RenderTemplateFromFS(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	data := map[string]any{
		"lines": []cartLine{{Name: "Mug", Quantity: 2}, {Name: "Tee", Quantity: 1}},
	}

	var buf bytes.Buffer
	out, err := engine.RenderTemplate("basket/body", data, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "<li>Mug x2</li><li>Tee x1</li>"
	if out != want {
		t.Fatalf("unexpected output\nwant: %s\ngot:  %s", want, out)
	}
	if buf.String() != want {
		t.Fatalf("writer did not receive output, got %q", buf.String())
	}
}

func TestEngine_MoneyFilter(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("price.tpl", map[string]any{"amount": 1250})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "12.50" {
		t.Fatalf("expected 12.50, got %q", out)
	}
}

func TestEngine_GlobalsAndFuncs(t *testing.T) {
	engine, err := pongo.New(
		pongo.WithFS(testFS()),
		pongo.WithGlobalData(map[string]any{"site": "default"}),
		pongo.WithTemplateFunc(map[string]any{
			"shout": func(s string) string { return strings.ToUpper(s) },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "default:HI" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEngine_AutoescapesValues(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("escape", map[string]any{"msg": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "&lt;b&gt;") {
		t.Fatalf("expected escaped output, got %q", out)
	}
}

func TestEngine_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("nope", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
