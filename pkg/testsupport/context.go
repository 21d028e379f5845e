package testsupport

import (
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/config"
	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/params"
	"github.com/goliatone/go-storefront/pkg/render/template"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

// Fixture bundles a request context with its recording collaborators.
type Fixture struct {
	Context  *storectx.Context
	Basket   *RecordingBasket
	Products *StaticProducts
	Cache    *RecordingCache
	Renderer *RecordingRenderer
}

// NewFixture returns a context wired to recording collaborators and the
// given flat configuration.
func NewFixture(cfg map[string]any) *Fixture {
	f := &Fixture{
		Basket:   NewRecordingBasket(),
		Products: &StaticProducts{Products: map[string]frontend.Product{}},
		Cache:    &RecordingCache{},
		Renderer: &RecordingRenderer{},
	}
	f.Context = &storectx.Context{
		Config:  config.FromMap(cfg),
		Logger:  zap.NewNop(),
		Session: storectx.NewMemorySession(),
		Cache:   f.Cache,
		Locale: storectx.Locale{
			Site:       storectx.Site{Code: "default", Label: "Default"},
			LanguageID: "en",
			CurrencyID: "EUR",
		},
	}
	f.Context.Controllers.Basket = f.Basket
	f.Context.Controllers.Product = f.Products
	return f
}

// View returns a view over values with the fixture's configuration and
// renderer.
func (f *Fixture) View(values map[string]any) *view.View {
	return view.New(
		view.WithParams(params.FromMap(values)),
		view.WithConfig(f.Context.Config),
		view.WithRenderer(f.Renderer),
	)
}

// RecordingRenderer returns the template name as output and keeps the data
// of every render.
type RecordingRenderer struct {
	mu      sync.Mutex
	Renders []Render
	Err     error
}

// Render is one recorded template render.
type Render struct {
	Name string
	Data map[string]any
}

var _ template.TemplateRenderer = (*RecordingRenderer)(nil)

func (r *RecordingRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	values, _ := data.(map[string]any)
	r.Renders = append(r.Renders, Render{Name: name, Data: values})
	for _, w := range out {
		if w != nil {
			_, _ = io.WriteString(w, name)
		}
	}
	return name, nil
}

// Last returns the most recent render.
func (r *RecordingRenderer) Last() Render {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Renders) == 0 {
		return Render{}
	}
	return r.Renders[len(r.Renders)-1]
}
