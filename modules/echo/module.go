package echo

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/message"
	"github.com/specialistvlad/svcgrid/internal/registry"
)

// Kind is the controller kind this module registers.
const Kind = "echo"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the echo kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(Kind, New)
}

// Controller answers every "echo" request with its own payload.
type Controller struct {
	*controller.Base
	greeting string
	echoed   atomic.Int64
}

// New is the echo Factory. The "greeting" option is included in every reply.
func New(name string, svc controller.Service, opts controller.Options) (controller.Controller, error) {
	base, err := controller.NewBase(name, svc)
	if err != nil {
		return nil, err
	}
	c := &Controller{Base: base, greeting: opts.String("greeting", "hello")}

	c.Hook(controller.Before, "echo", c.beforeEcho)
	c.Action("echo", c.echo)
	c.Hook(controller.After, "echo", c.afterEcho)
	c.Action("stats", c.stats)
	return c, nil
}

// beforeEcho rejects requests without a payload.
func (c *Controller) beforeEcho(_ context.Context, req message.Request, resp message.Response) error {
	if req.Payload() != nil {
		return nil
	}
	resp.SetStatus(message.StatusBadRequest, fmt.Sprintf("The action 'echo' on the '%s' resource needs a payload!", c.Name()), nil)
	return resp.Send()
}

func (c *Controller) echo(_ context.Context, req message.Request, resp message.Response) error {
	resp.SetData(map[string]any{
		"greeting":   c.greeting,
		"echo":       req.Payload(),
		"request_id": req.ID(),
	})
	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}

func (c *Controller) afterEcho(ctx context.Context, req message.Request, _ message.Response) error {
	n := c.echoed.Add(1)
	ctxlog.FromContext(ctx).Debug("Echoed request.", "controller", c.Name(), "request_id", req.ID(), "total", n)
	return nil
}

func (c *Controller) stats(_ context.Context, _ message.Request, resp message.Response) error {
	resp.SetData(map[string]any{"echoed": c.echoed.Load()})
	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}
