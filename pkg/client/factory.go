package client

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-storefront/pkg/storectx"
)

// DefaultName is the implementation used when none is configured.
const DefaultName = "standard"

var validName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Constructor builds a client for one request. It must call SetObject on the
// returned client with itself; the factory re-points it after decorating.
type Constructor func(sc *storectx.Context, f *Factory) Client

// Factory maps client paths and implementation names to constructors.
type Factory struct {
	mu         sync.RWMutex
	ctors      map[string]map[string]Constructor
	decorators *DecoratorRegistry
}

// NewFactory returns a factory applying decorators from registry. A nil
// registry disables decoration.
func NewFactory(registry *DecoratorRegistry) *Factory {
	if registry == nil {
		registry = NewDecoratorRegistry()
	}
	return &Factory{
		ctors:      make(map[string]map[string]Constructor),
		decorators: registry,
	}
}

// Decorators returns the decorator registry.
func (f *Factory) Decorators() *DecoratorRegistry { return f.decorators }

// Register adds a constructor for path under name. Duplicates are rejected.
func (f *Factory) Register(path, name string, ctor Constructor) error {
	path = strings.Trim(strings.TrimSpace(path), "/")
	name = strings.TrimSpace(name)
	if path == "" || name == "" {
		return fmt.Errorf("client: path and name are required")
	}
	if ctor == nil {
		return fmt.Errorf("client: constructor for %s/%s is required", path, name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ctors[path] == nil {
		f.ctors[path] = make(map[string]Constructor)
	}
	if _, exists := f.ctors[path][name]; exists {
		return fmt.Errorf("client: %s/%s already registered", path, name)
	}
	f.ctors[path][name] = ctor
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (f *Factory) MustRegister(path, name string, ctor Constructor) {
	if err := f.Register(path, name, ctor); err != nil {
		panic(err)
	}
}

// Has reports whether path/name is registered.
func (f *Factory) Has(path, name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ctors[strings.Trim(path, "/")][name]
	return ok
}

// List returns "path:name" entries sorted.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []string
	for path, names := range f.ctors {
		for name := range names {
			out = append(out, path+":"+name)
		}
	}
	sort.Strings(out)
	return out
}

// Create builds the client at path. An empty name reads
// client/html/<path>/name and defaults to "standard". The client is wrapped
// by its configured decorators and pointed at the outermost wrapper.
func (f *Factory) Create(sc *storectx.Context, path, name string) (Client, error) {
	if sc == nil {
		sc = &storectx.Context{}
	}
	path = strings.Trim(strings.TrimSpace(path), "/")
	if name == "" {
		name = sc.Conf().String("client/html/"+path+"/name", DefaultName)
	}
	if !validName.MatchString(name) {
		return nil, Errorf("Invalid characters in client name \"%[1]s\"", name)
	}

	f.mu.RLock()
	ctor, ok := f.ctors[path][name]
	f.mu.RUnlock()
	if !ok {
		return nil, Wrap(ErrUnknownClient, "Client \"%[1]s\" not available", path+"/"+name)
	}

	c := ctor(sc, f)
	decorated, err := f.decorators.Apply(sc, c, path)
	if err != nil {
		return nil, err
	}
	decorated.SetObject(decorated)
	return decorated, nil
}
