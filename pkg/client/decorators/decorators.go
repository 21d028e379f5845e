package decorators

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-storefront/pkg/client"
	"github.com/goliatone/go-storefront/pkg/storectx"
	"github.com/goliatone/go-storefront/pkg/view"
)

// Names of the built-in decorators.
const (
	NameLogging       = "logging"
	NameRecover       = "recover"
	NameAuthenticated = "authenticated"
)

// KeyAuthenticationRequired is set on the view when the authenticated
// decorator suppresses output.
const KeyAuthenticationRequired = "authenticationRequired"

// Register adds the built-in decorators to r: logging and recover as common
// decorators, authenticated as a checkout-local one.
func Register(r *client.DecoratorRegistry) error {
	if err := r.RegisterCommon(NameLogging, NewLogging); err != nil {
		return err
	}
	if err := r.RegisterCommon(NameRecover, NewRecover); err != nil {
		return err
	}
	return r.RegisterLocal("checkout", NameAuthenticated, NewAuthenticated)
}

// Logging logs duration and failures of every call at debug/error level.
type Logging struct {
	client.Decorator
	log *zap.Logger
}

// NewLogging wraps inner.
func NewLogging(inner client.Client, sc *storectx.Context) client.Client {
	return &Logging{
		Decorator: client.NewDecorator(inner),
		log:       sc.Log().With(zap.String("client", inner.Path())),
	}
}

func (d *Logging) Header(ctx context.Context, uid string) (string, error) {
	start := time.Now()
	out, err := d.Inner().Header(ctx, uid)
	d.done("header", start, err)
	return out, err
}

func (d *Logging) Body(ctx context.Context, uid string) (string, error) {
	start := time.Now()
	out, err := d.Inner().Body(ctx, uid)
	d.done("body", start, err)
	return out, err
}

func (d *Logging) Process(ctx context.Context) error {
	start := time.Now()
	err := d.Inner().Process(ctx)
	d.done("process", start, err)
	return err
}

func (d *Logging) done(op string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		d.log.Error("client call failed", append(fields, zap.Error(err))...)
		return
	}
	d.log.Debug("client call", fields...)
}

// Recover turns panics of the wrapped client into errors.
type Recover struct {
	client.Decorator
	log *zap.Logger
}

// NewRecover wraps inner.
func NewRecover(inner client.Client, sc *storectx.Context) client.Client {
	return &Recover{
		Decorator: client.NewDecorator(inner),
		log:       sc.Log().With(zap.String("client", inner.Path())),
	}
}

func (d *Recover) Header(ctx context.Context, uid string) (out string, err error) {
	defer d.recover(&err)
	return d.Inner().Header(ctx, uid)
}

func (d *Recover) Body(ctx context.Context, uid string) (out string, err error) {
	defer d.recover(&err)
	return d.Inner().Body(ctx, uid)
}

func (d *Recover) Process(ctx context.Context) (err error) {
	defer d.recover(&err)
	return d.Inner().Process(ctx)
}

func (d *Recover) AddData(ctx context.Context, v *view.View) (out *view.View, err error) {
	defer d.recover(&err)
	return d.Inner().AddData(ctx, v)
}

func (d *Recover) recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	d.log.Error("client panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
	*err = fmt.Errorf("client panic: %v", r)
}

// Authenticated suppresses output and processing for anonymous visitors.
type Authenticated struct {
	client.Decorator
	sc *storectx.Context
}

// NewAuthenticated wraps inner.
func NewAuthenticated(inner client.Client, sc *storectx.Context) client.Client {
	return &Authenticated{Decorator: client.NewDecorator(inner), sc: sc}
}

func (d *Authenticated) Header(ctx context.Context, uid string) (string, error) {
	if !d.allowed() {
		return "", nil
	}
	return d.Inner().Header(ctx, uid)
}

func (d *Authenticated) Body(ctx context.Context, uid string) (string, error) {
	if !d.allowed() {
		return "", nil
	}
	return d.Inner().Body(ctx, uid)
}

func (d *Authenticated) Process(ctx context.Context) error {
	if !d.allowed() {
		return nil
	}
	return d.Inner().Process(ctx)
}

func (d *Authenticated) allowed() bool {
	if d.sc != nil && d.sc.UserID != "" {
		return true
	}
	d.View().Set(KeyAuthenticationRequired, true)
	return false
}
