// Package service ties the registry, the loader and the dispatcher together
// into the object controllers belong to.
package service

import (
	"context"
	"fmt"

	"github.com/specialistvlad/svcgrid/internal/config"
	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/dispatcher"
	"github.com/specialistvlad/svcgrid/internal/loader"
	"github.com/specialistvlad/svcgrid/internal/manifest"
	"github.com/specialistvlad/svcgrid/internal/message"
	"github.com/specialistvlad/svcgrid/internal/registry"
)

// AutoKind is the kind name of the auto-provisioned controller.
const AutoKind = "auto"

// Service owns a set of controllers and dispatches requests to them.
type Service struct {
	name       string
	options    controller.Options
	registry   *registry.Registry
	loader     *loader.Loader
	dispatcher *dispatcher.Dispatcher
}

type settings struct {
	options  controller.Options
	bridge   dispatcher.Bridge
	resolver loader.Resolver
}

// Option configures a Service.
type Option func(*settings)

// WithOptions sets the options shared by every controller of the service.
func WithOptions(opts controller.Options) Option {
	return func(s *settings) { s.options = opts }
}

// WithBridge enables legacy requests through b.
func WithBridge(b dispatcher.Bridge) Option {
	return func(s *settings) { s.bridge = b }
}

// WithResolver replaces the HCL manifest resolver used for path registrations.
func WithResolver(r loader.Resolver) Option {
	return func(s *settings) { s.resolver = r }
}

// New creates a service named name around reg. The auto kind is added to
// reg if a module has not provided its own.
func New(name string, reg *registry.Registry, opts ...Option) *Service {
	st := &settings{options: controller.Options{}}
	for _, opt := range opts {
		if opt != nil {
			opt(st)
		}
	}
	if st.resolver == nil {
		st.resolver = manifest.NewResolver(reg)
	}
	if _, ok := reg.Kind(AutoKind); !ok {
		reg.RegisterKind(AutoKind, controller.NewAuto)
	}

	s := &Service{name: name, options: st.options, registry: reg}
	s.loader = loader.New(reg, s,
		loader.WithResolver(st.resolver),
		loader.WithOptions(st.options),
	)
	s.dispatcher = dispatcher.New(name, reg, s.loader, st.bridge)
	return s
}

func (s *Service) Name() string                { return s.name }
func (s *Service) Options() controller.Options { return s.options }

// Registry returns the service's registry.
func (s *Service) Registry() *registry.Registry { return s.registry }

// Loader returns the service's controller cache.
func (s *Service) Loader() *loader.Loader { return s.loader }

// Controller returns the named controller, loading it if necessary. It is
// how controllers reach their siblings.
func (s *Service) Controller(ctx context.Context, name string) (controller.Controller, error) {
	return s.loader.Resolve(ctx, name)
}

// RegisterController registers name. A nil registration means auto.
func (s *Service) RegisterController(name string, reg registry.Registration) {
	s.registry.Register(name, reg)
}

// LoadControllerDirectory registers every controller manifest in dir.
func (s *Service) LoadControllerDirectory(ctx context.Context, dir string) error {
	return s.registry.LoadDirectory(ctx, dir)
}

// Declare registers a controller declared in the service configuration.
func (s *Service) Declare(decl *config.ControllerDeclaration) error {
	switch {
	case decl.Path != "":
		s.registry.Register(decl.Name, registry.Path{Locator: decl.Path})
	case decl.Kind == "" || decl.Kind == AutoKind:
		s.registry.Register(decl.Name, registry.Auto{})
	default:
		factory, ok := s.registry.Kind(decl.Kind)
		if !ok {
			return fmt.Errorf("controller '%s': %w '%s'", decl.Name, manifest.ErrUnknownKind, decl.Kind)
		}
		s.registry.Register(decl.Name, registry.Factory{New: factory})
	}
	return nil
}

// Validate checks all registrations before the service takes traffic.
func (s *Service) Validate(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Validating service registrations.", "service", s.name, "controllers", len(s.registry.Names()))
	return s.registry.Validate(ctx)
}

// Handle dispatches req, reporting the outcome through resp.
func (s *Service) Handle(ctx context.Context, req message.Request, resp message.Response) error {
	return s.dispatcher.Handle(ctx, req, resp)
}

// HandleLegacy dispatches a legacy request through the configured bridge.
func (s *Service) HandleLegacy(ctx context.Context, raw *message.LegacyRequest, resp message.Response) error {
	return s.dispatcher.HandleLegacy(ctx, raw, resp)
}
