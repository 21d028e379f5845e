package client

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/i18n"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

// MsgNonRecoverable is shown for errors outside the known taxonomy.
const MsgNonRecoverable = "A non-recoverable error occurred"

// Base carries the behaviour shared by all clients. Sections embed it and
// override Header, Body, Process and AddData.
type Base struct {
	path     string
	subparts []string
	ctx      *storectx.Context
	factory  *Factory

	object     Client
	view       *view.View
	populated  *view.View
	subclients []Client
	loaded     bool
}

// NewBase prepares the shared state of the client at path. subparts are the
// sub-client names used when the configuration does not list any.
func NewBase(sc *storectx.Context, factory *Factory, path string, subparts ...string) Base {
	if sc == nil {
		sc = &storectx.Context{}
	}
	return Base{
		path:     strings.Trim(path, "/"),
		subparts: subparts,
		ctx:      sc,
		factory:  factory,
	}
}

func (b *Base) Path() string { return b.path }

// Context returns the request context.
func (b *Base) Context() *storectx.Context { return b.ctx }

// Factory returns the factory the client was created with.
func (b *Base) Factory() *Factory { return b.factory }

// ConfigKey prefixes key with the client's configuration namespace.
func (b *Base) ConfigKey(key string) string {
	return "client/html/" + b.path + "/" + strings.TrimLeft(key, "/")
}

func (b *Base) SetView(v *view.View) {
	b.view = v
	b.populated = nil
}

// View returns the assigned view, creating an empty one on demand.
func (b *Base) View() *view.View {
	if b.view == nil {
		b.view = view.New(view.WithConfig(b.ctx.Conf()), view.WithTranslator(b.ctx.I18n))
	}
	return b.view
}

func (b *Base) SetObject(c Client) { b.object = c }

// Object returns the outermost client.
func (b *Base) Object() Client { return b.object }

// Populate fills the view through the outermost object once per request and
// returns the populated view on every later call. A view already populated by
// a parent client is used as is.
func (b *Base) Populate(ctx context.Context) (*view.View, error) {
	if b.populated != nil {
		return b.populated, nil
	}
	current := b.View()
	if current.IsPopulated(b.path) {
		b.populated = current
		return current, nil
	}
	if b.object == nil {
		return nil, Errorf("Client %s has no object set", b.path)
	}
	v, err := b.object.AddData(ctx, current)
	if err != nil {
		return nil, err
	}
	v.MarkPopulated(b.path)
	b.view = v
	b.populated = v
	return v, nil
}

// Populated reports whether Populate already ran successfully.
func (b *Base) Populated() bool { return b.populated != nil }

// AddData runs every sub-client's AddData in configured order.
func (b *Base) AddData(ctx context.Context, v *view.View) (*view.View, error) {
	subclients, err := b.SubClients()
	if err != nil {
		return v, err
	}
	for _, sub := range subclients {
		if v, err = sub.AddData(ctx, v); err != nil {
			return v, err
		}
		v.MarkPopulated(sub.Path())
	}
	return v, nil
}

// Process runs every sub-client's Process with the current view.
func (b *Base) Process(ctx context.Context) error {
	subclients, err := b.SubClients()
	if err != nil {
		return err
	}
	v := b.View()
	for _, sub := range subclients {
		sub.SetView(v)
		if err := sub.Process(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Header concatenates the sub-client headers.
func (b *Base) Header(ctx context.Context, uid string) (string, error) {
	return b.collect(ctx, uid, Client.Header)
}

// Body concatenates the sub-client bodies.
func (b *Base) Body(ctx context.Context, uid string) (string, error) {
	return b.collect(ctx, uid, Client.Body)
}

func (b *Base) collect(ctx context.Context, uid string, part func(Client, context.Context, string) (string, error)) (string, error) {
	subclients, err := b.SubClients()
	if err != nil {
		return "", err
	}
	v := b.View()
	var out strings.Builder
	for _, sub := range subclients {
		sub.SetView(v)
		html, err := part(sub, ctx, uid)
		if err != nil {
			return out.String(), err
		}
		out.WriteString(html)
	}
	return out.String(), nil
}

// SubClient resolves typ below this client's path.
func (b *Base) SubClient(typ, name string) (Client, error) {
	return b.CreateSubClient(b.path+"/"+strings.Trim(typ, "/"), name)
}

// CreateSubClient creates the client at path through the factory.
func (b *Base) CreateSubClient(path, name string) (Client, error) {
	if b.factory == nil {
		return nil, Errorf("No factory available for %s", path)
	}
	return b.factory.Create(b.ctx, path, name)
}

// SubClientNames returns the configured sub-client names.
func (b *Base) SubClientNames() []string {
	return b.ctx.Conf().Strings(b.ConfigKey("standard/subparts"), b.subparts)
}

// SubClients returns the sub-clients, creating them on first use. Creation
// goes through the outermost object so overridden SubClient methods apply.
func (b *Base) SubClients() ([]Client, error) {
	if b.loaded {
		return b.subclients, nil
	}
	names := b.SubClientNames()
	subclients := make([]Client, 0, len(names))
	for _, name := range names {
		var (
			sub Client
			err error
		)
		if b.object != nil {
			sub, err = b.object.SubClient(name, "")
		} else {
			sub, err = b.SubClient(name, "")
		}
		if err != nil {
			return nil, err
		}
		subclients = append(subclients, sub)
	}
	b.subclients = subclients
	b.loaded = true
	return subclients, nil
}

// Template returns the configured template for kind ("body", "header"),
// falling back to def.
func (b *Base) Template(kind, def string) string {
	return b.ctx.Conf().String(b.ConfigKey("standard/template-"+kind), def)
}

// HandleError records err on v as translated messages. Client, controller
// and domain errors are shown to the visitor; plugin errors also expose
// their codes; anything else is logged and replaced by a generic message.
func (b *Base) HandleError(v *view.View, err error) {
	HandleError(b.ctx, b.path, v, err)
}

// HandleError is the Base.HandleError logic for callers outside a client,
// such as HTTP handlers reporting a failed Process.
func HandleError(sc *storectx.Context, path string, v *view.View, err error) {
	if err == nil || v == nil {
		return
	}

	var (
		clientErr     *Error
		controllerErr *frontend.ControllerError
		pluginErr     *frontend.PluginError
		domainErr     *frontend.DomainError
	)

	switch {
	case errors.As(err, &clientErr):
		v.Append(view.KeyErrorList, sc.Translate(i18n.DomainClient, clientErr.Msg, clientErr.Args...))
	case errors.As(err, &controllerErr):
		v.Append(view.KeyErrorList, sc.Translate(i18n.DomainController, controllerErr.Msg))
	case errors.As(err, &pluginErr):
		msgs := []string{sc.Translate(i18n.DomainMShop, pluginErr.Msg)}
		msgs = append(msgs, translatePluginCodes(sc, pluginErr.Codes)...)
		v.Append(view.KeyErrorList, msgs...)
		v.Set(view.KeyErrorCodes, pluginErr.Codes)
	case errors.As(err, &domainErr):
		v.Append(view.KeyErrorList, sc.Translate(i18n.DomainMShop, domainErr.Msg))
	default:
		v.Append(view.KeyErrorList, sc.Translate(i18n.DomainClient, MsgNonRecoverable))
		sc.Log().Error("client failure",
			zap.String("client", path),
			zap.Error(err),
		)
	}
}

func translatePluginCodes(sc *storectx.Context, codes map[string]map[string]string) []string {
	parts := make([]string, 0, len(codes))
	for part := range codes {
		parts = append(parts, part)
	}
	sort.Strings(parts)

	var out []string
	for _, part := range parts {
		keys := make([]string, 0, len(codes[part]))
		for key := range codes[part] {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			out = append(out, sc.Translate(i18n.DomainCode, codes[part][key]))
		}
	}
	return out
}
