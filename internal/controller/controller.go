package controller

import (
	"context"
	"errors"

	"github.com/specialistvlad/svcgrid/internal/message"
)

var (
	// ErrInvalidName is returned when a controller is built without a name.
	ErrInvalidName = errors.New("controller: a controller name is required")
	// ErrNoService is returned when a controller is built without its owning service.
	ErrNoService = errors.New("controller: the owning service is required")
	// ErrContractViolation marks an action that panicked instead of returning.
	ErrContractViolation = errors.New("controller: action violated its contract")
)

// Service is the handle a controller keeps on the service that owns it. It
// is a non-owning back-reference used to reach sibling controllers and the
// shared controller options.
type Service interface {
	Name() string
	Controller(ctx context.Context, name string) (Controller, error)
	Options() Options
}

// Controller is the capability every handler registered with a service must
// provide. Embedding *Base satisfies everything but the constructor.
type Controller interface {
	Name() string
	Service() Service

	// Load runs once, right after construction and before the controller is
	// handed to any caller. An error fails the controller permanently.
	Load(ctx context.Context) error

	HasAction(action string) bool
	CallMethod(ctx context.Context, action string, req message.Request, resp message.Response) error
	CallLifeCycleMethod(ctx context.Context, action string, phase Phase, req message.Request, resp message.Response) error

	// Request runs the before hook, the action and the after hook in order.
	Request(ctx context.Context, action string, req message.Request, resp message.Response) error
}

// Factory constructs a controller. opts are the shared controller options,
// merged with any options from the controller's own manifest.
type Factory func(name string, svc Service, opts Options) (Controller, error)

// Options is the shared, read-only controller configuration.
type Options map[string]any

// Merge returns a new Options holding o overlaid with other.
func (o Options) Merge(other Options) Options {
	merged := make(Options, len(o)+len(other))
	for k, v := range o {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// String returns the string option under key, or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Int returns the numeric option under key, or def. HCL numbers arrive as
// float64 and are truncated.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}
