package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/registry"
)

// State is the lifecycle state of a load slot.
type State int

const (
	StatePending State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolver turns the locator of a Path registration into a factory and the
// options declared alongside it.
type Resolver interface {
	Resolve(ctx context.Context, locator string) (controller.Factory, controller.Options, error)
}

// Registrations is the part of the registry the Loader reads.
type Registrations interface {
	Lookup(name string) (registry.Registration, bool)
}

// Callback receives the outcome of a resolution. Exactly one of the two
// arguments is non-nil. Callbacks run on the goroutine that settles the slot
// and must not block.
type Callback func(controller.Controller, error)

type slot struct {
	state State
	// flushing is set while the settling goroutine notifies waiters. Callers
	// arriving then are queued behind them instead of answered directly.
	flushing bool
	waiters  []Callback
	ctrl    controller.Controller
	err     error
}

// Loader is the per-service controller cache.
type Loader struct {
	mu    sync.Mutex
	slots map[string]*slot

	registrations Registrations
	service       controller.Service
	resolver      Resolver
	options       controller.Options
	auto          controller.Factory
}

// Option configures a Loader.
type Option func(*Loader)

// WithResolver sets the resolver used for Path registrations.
func WithResolver(r Resolver) Option { return func(l *Loader) { l.resolver = r } }

// WithOptions sets the shared controller options passed to every factory.
func WithOptions(opts controller.Options) Option { return func(l *Loader) { l.options = opts } }

// WithAutoFactory replaces the factory used for Auto registrations.
func WithAutoFactory(f controller.Factory) Option { return func(l *Loader) { l.auto = f } }

// New creates a Loader that builds controllers owned by svc.
func New(regs Registrations, svc controller.Service, opts ...Option) *Loader {
	l := &Loader{
		slots:         make(map[string]*slot),
		registrations: regs,
		service:       svc,
		options:       controller.Options{},
		auto:          controller.NewAuto,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve returns the controller registered under name, building it on first
// use. It blocks until the controller is ready, its load fails, or ctx ends.
func (l *Loader) Resolve(ctx context.Context, name string) (controller.Controller, error) {
	type outcome struct {
		ctrl controller.Controller
		err  error
	}
	done := make(chan outcome, 1)
	l.ResolveAsync(ctx, name, func(c controller.Controller, err error) {
		done <- outcome{ctrl: c, err: err}
	})

	// A settled slot answers synchronously; prefer that over a done ctx.
	select {
	case o := <-done:
		return o.ctrl, o.err
	default:
	}

	select {
	case o := <-done:
		return o.ctrl, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for controller '%s': %w", name, ctx.Err())
	}
}

// ResolveAsync is Resolve with a continuation. For a settled Ready or Failed
// slot, or an unregistered name, cb runs before ResolveAsync returns.
// Otherwise cb is queued and runs, in arrival order with the other waiters,
// once the slot settles. A slot still notifying its waiters counts as
// unsettled, so no caller is answered ahead of an earlier one.
func (l *Loader) ResolveAsync(ctx context.Context, name string, cb Callback) {
	logger := ctxlog.FromContext(ctx)

	l.mu.Lock()
	if s, ok := l.slots[name]; ok {
		switch {
		case s.flushing:
			s.waiters = append(s.waiters, cb)
			l.mu.Unlock()
		case s.state == StateReady:
			ctrl := s.ctrl
			l.mu.Unlock()
			cb(ctrl, nil)
		case s.state == StateFailed:
			err := s.err
			l.mu.Unlock()
			cb(nil, err)
		default:
			s.waiters = append(s.waiters, cb)
			queued := len(s.waiters)
			l.mu.Unlock()
			logger.Debug("Controller is loading, request queued.", "controller", name, "position", queued)
		}
		return
	}

	reg, ok := l.registrations.Lookup(name)
	if !ok {
		l.mu.Unlock()
		cb(nil, &LoadError{Name: name, Cause: ErrNotRegistered})
		return
	}

	l.slots[name] = &slot{state: StatePending, waiters: []Callback{cb}}
	l.mu.Unlock()

	logger.Debug("Controller load started.", "controller", name, "registration", reg.String())
	go l.load(context.WithoutCancel(ctx), name, reg)
}

// State reports the slot state for name. ok is false when no load was ever
// started for it.
func (l *Loader) State(name string) (state State, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[name]
	if !ok {
		return 0, false
	}
	return s.state, true
}

func (l *Loader) load(ctx context.Context, name string, reg registry.Registration) {
	ctx, logger := ctxlog.With(ctx, "controller", name)

	ctrl, err := l.build(ctx, name, reg)
	if err != nil {
		err = &LoadError{Name: name, Cause: err}
		logger.Error("Controller failed to load.", "error", err)
	} else {
		logger.Debug("Controller loaded.")
	}

	l.mu.Lock()
	s := l.slots[name]
	if err != nil {
		s.state, s.err = StateFailed, err
	} else {
		s.state, s.ctrl = StateReady, ctrl
	}
	s.flushing = true

	// Drain until no caller joined during the previous batch.
	for len(s.waiters) > 0 {
		waiters := s.waiters
		s.waiters = nil
		l.mu.Unlock()
		for _, cb := range waiters {
			cb(ctrl, err)
		}
		l.mu.Lock()
	}
	s.flushing = false
	l.mu.Unlock()
}

func (l *Loader) build(ctx context.Context, name string, reg registry.Registration) (ctrl controller.Controller, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctrl, err = nil, fmt.Errorf("panic while building controller: %v", r)
		}
	}()

	factory, opts, err := l.factoryFor(ctx, reg)
	if err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, ErrContract
	}

	ctrl, err = factory(name, l.service, l.options.Merge(opts))
	if err != nil {
		return nil, fmt.Errorf("construction failed: %w", err)
	}
	if ctrl == nil {
		return nil, ErrContract
	}
	if ctrl.Name() != name {
		return nil, fmt.Errorf("%w: it is named '%s'", ErrContract, ctrl.Name())
	}

	if err := ctrl.Load(ctx); err != nil {
		return nil, fmt.Errorf("load hook failed: %w", err)
	}
	return ctrl, nil
}

func (l *Loader) factoryFor(ctx context.Context, reg registry.Registration) (controller.Factory, controller.Options, error) {
	switch r := reg.(type) {
	case registry.Path:
		if l.resolver == nil {
			return nil, nil, ErrNoResolver
		}
		factory, opts, err := l.resolver.Resolve(ctx, r.Locator)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve '%s': %w", r.Locator, err)
		}
		return factory, opts, nil
	case registry.Factory:
		return r.New, nil, nil
	case registry.Auto:
		return l.auto, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w %T, expected a path, a factory or auto", ErrInvalidRegistration, reg)
	}
}
