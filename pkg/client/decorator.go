package client

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-storefront/pkg/storectx"
)

// DecoratorConstructor wraps inner.
type DecoratorConstructor func(inner Client, sc *storectx.Context) Client

// Decorator forwards every Client method to the wrapped client. Concrete
// decorators embed it and override what they change.
type Decorator struct {
	Client
	object Client
}

// NewDecorator wraps inner.
func NewDecorator(inner Client) Decorator {
	return Decorator{Client: inner}
}

// Inner returns the wrapped client.
func (d *Decorator) Inner() Client { return d.Client }

// SetObject records the outermost client here and on the wrapped client.
func (d *Decorator) SetObject(c Client) {
	d.object = c
	d.Client.SetObject(c)
}

// Object returns the outermost client.
func (d *Decorator) Object() Client { return d.object }

// DecoratorRegistry holds named decorator constructors. Common decorators
// apply to every client; local ones belong to a section, the first segment
// of a client path.
type DecoratorRegistry struct {
	mu     sync.RWMutex
	common map[string]DecoratorConstructor
	local  map[string]map[string]DecoratorConstructor
}

// NewDecoratorRegistry returns an empty registry.
func NewDecoratorRegistry() *DecoratorRegistry {
	return &DecoratorRegistry{
		common: make(map[string]DecoratorConstructor),
		local:  make(map[string]map[string]DecoratorConstructor),
	}
}

// RegisterCommon adds a decorator usable by any client.
func (r *DecoratorRegistry) RegisterCommon(name string, ctor DecoratorConstructor) error {
	name = strings.TrimSpace(name)
	if name == "" || ctor == nil {
		return fmt.Errorf("client: decorator name and constructor are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.common[name]; exists {
		return fmt.Errorf("client: common decorator %q already registered", name)
	}
	r.common[name] = ctor
	return nil
}

// RegisterLocal adds a decorator for clients of section.
func (r *DecoratorRegistry) RegisterLocal(section, name string, ctor DecoratorConstructor) error {
	section = strings.TrimSpace(section)
	name = strings.TrimSpace(name)
	if section == "" || name == "" || ctor == nil {
		return fmt.Errorf("client: decorator section, name and constructor are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.local[section] == nil {
		r.local[section] = make(map[string]DecoratorConstructor)
	}
	if _, exists := r.local[section][name]; exists {
		return fmt.Errorf("client: local decorator %s/%q already registered", section, name)
	}
	r.local[section][name] = ctor
	return nil
}

// MustRegisterCommon panics on registration failure.
func (r *DecoratorRegistry) MustRegisterCommon(name string, ctor DecoratorConstructor) {
	if err := r.RegisterCommon(name, ctor); err != nil {
		panic(err)
	}
}

// MustRegisterLocal panics on registration failure.
func (r *DecoratorRegistry) MustRegisterLocal(section, name string, ctor DecoratorConstructor) {
	if err := r.RegisterLocal(section, name, ctor); err != nil {
		panic(err)
	}
}

// List returns registered decorator names, local ones as "section/name".
func (r *DecoratorRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.common))
	for name := range r.common {
		out = append(out, name)
	}
	for section, names := range r.local {
		for name := range names {
			out = append(out, section+"/"+name)
		}
	}
	sort.Strings(out)
	return out
}

// ResolvedDecorator is one step of a decorator chain.
type ResolvedDecorator struct {
	Name  string
	Local bool
	ctor  DecoratorConstructor
}

// Resolve returns the chain for path, innermost first: the default common
// list minus the path's excludes, then the path's global list, then its local
// list. Unknown names fail the whole resolution.
func (r *DecoratorRegistry) Resolve(sc *storectx.Context, path string) ([]ResolvedDecorator, error) {
	cfg := sc.Conf()
	prefix := "client/html/" + path + "/decorators/"

	excludes := make(map[string]struct{})
	for _, name := range cfg.Strings(prefix+"excludes", nil) {
		excludes[name] = struct{}{}
	}

	var chain []ResolvedDecorator
	for _, name := range cfg.Strings("client/html/common/decorators/default", nil) {
		if _, skip := excludes[name]; skip {
			continue
		}
		step, err := r.lookup("", name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, step)
	}
	for _, name := range cfg.Strings(prefix+"global", nil) {
		step, err := r.lookup("", name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, step)
	}
	section := sectionOf(path)
	for _, name := range cfg.Strings(prefix+"local", nil) {
		step, err := r.lookup(section, name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, step)
	}
	return chain, nil
}

// Apply wraps c with the chain resolved for path.
func (r *DecoratorRegistry) Apply(sc *storectx.Context, c Client, path string) (Client, error) {
	chain, err := r.Resolve(sc, path)
	if err != nil {
		return nil, err
	}
	for _, step := range chain {
		c = step.ctor(c, sc)
	}
	return c, nil
}

func (r *DecoratorRegistry) lookup(section, name string) (ResolvedDecorator, error) {
	name = strings.TrimSpace(name)
	if !validName.MatchString(name) {
		return ResolvedDecorator{}, Errorf("Invalid characters in decorator name \"%[1]s\"", name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if section == "" {
		if ctor, ok := r.common[name]; ok {
			return ResolvedDecorator{Name: name, ctor: ctor}, nil
		}
		return ResolvedDecorator{}, Errorf("Decorator \"%[1]s\" not available", name)
	}
	if ctor, ok := r.local[section][name]; ok {
		return ResolvedDecorator{Name: name, Local: true, ctor: ctor}, nil
	}
	return ResolvedDecorator{}, Errorf("Decorator \"%[1]s\" not available", section+"/"+name)
}

func sectionOf(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
