package dispatcher

import (
	"context"
	"fmt"

	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/message"
)

// Registry answers whether a controller name is known.
type Registry interface {
	IsRegistered(name string) bool
}

// Resolver produces ready controllers.
type Resolver interface {
	Resolve(ctx context.Context, name string) (controller.Controller, error)
}

// Bridge translates legacy requests into the current request shape.
type Bridge interface {
	Convert(raw *message.LegacyRequest, resp message.Response) (message.Request, error)
}

// Dispatcher maps (object, action) pairs to controller calls.
type Dispatcher struct {
	service  string
	registry Registry
	resolver Resolver
	bridge   Bridge
}

// New creates a Dispatcher for the named service. bridge may be nil if
// legacy requests are not accepted.
func New(service string, reg Registry, resolver Resolver, bridge Bridge) *Dispatcher {
	return &Dispatcher{
		service:  service,
		registry: reg,
		resolver: resolver,
		bridge:   bridge,
	}
}

// Handle dispatches req and reports the outcome through resp.
func (d *Dispatcher) Handle(ctx context.Context, req message.Request, resp message.Response) error {
	object, action := req.ObjectName(), req.ActionName()
	ctx, logger := ctxlog.With(ctx, "request_id", req.ID(), "controller", object, "action", action)
	logger.Debug("Dispatching request.")

	if !d.registry.IsRegistered(object) {
		return d.fail(ctx, resp, message.KindObjectNotFound, object, action, nil,
			fmt.Sprintf("The service '%s' has no controller '%s'!", d.service, object))
	}

	ctrl, err := d.resolver.Resolve(ctx, object)
	if err != nil {
		return d.fail(ctx, resp, message.KindServiceError, object, action, err,
			fmt.Sprintf("The service '%s' failed to load the controller '%s'!", d.service, object))
	}

	if !ctrl.HasAction(action) {
		return d.fail(ctx, resp, message.KindActionNotFound, object, action, nil,
			fmt.Sprintf("The controller '%s' on the service '%s' has no action '%s'!", object, d.service, action))
	}

	if err := ctrl.Request(ctx, action, req, resp); err != nil {
		if resp.Sent() {
			logger.Error("Action failed after its response was sent.", "error", err)
			return nil
		}
		return d.fail(ctx, resp, message.KindServerError, object, action, err,
			fmt.Sprintf("The action '%s' on the '%s' failed!", action, object))
	}

	logger.Debug("Request dispatched.")
	return nil
}

// HandleLegacy converts a legacy request through the bridge and dispatches
// the result. A request the bridge cannot convert is answered with a bad
// request status.
func (d *Dispatcher) HandleLegacy(ctx context.Context, raw *message.LegacyRequest, resp message.Response) error {
	if d.bridge == nil {
		return ErrNoBridge
	}
	req, err := d.bridge.Convert(raw, resp)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Legacy request rejected.", "resource", raw.Resource, "method", raw.Method, "error", err)
		resp.SetStatus(message.StatusBadRequest, fmt.Sprintf("The legacy request for '%s' could not be converted!", raw.Resource), err)
		return resp.Send()
	}
	return d.Handle(ctx, req, resp)
}

func (d *Dispatcher) fail(ctx context.Context, resp message.Response, kind message.ErrorKind, object, action string, cause error, msg string) error {
	dispatchErr := &Error{Kind: kind, Service: d.service, Object: object, Action: action, Cause: cause}
	ctxlog.FromContext(ctx).Warn("Request failed.", "kind", string(kind), "error", dispatchErr)
	return resp.SendError(kind, msg, dispatchErr)
}
