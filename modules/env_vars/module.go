package env_vars

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/message"
	"github.com/specialistvlad/svcgrid/internal/registry"
)

// Kind is the controller kind this module registers.
const Kind = "env_vars"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the env_vars kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(Kind, New)
}

// Controller serves a snapshot of the process environment taken when the
// controller loads. The "prefix" option limits the snapshot to variables
// starting with it.
type Controller struct {
	*controller.Base
	prefix string
	vars   map[string]string
}

// New is the env_vars Factory.
func New(name string, svc controller.Service, opts controller.Options) (controller.Controller, error) {
	base, err := controller.NewBase(name, svc)
	if err != nil {
		return nil, err
	}
	c := &Controller{Base: base, prefix: opts.String("prefix", "")}
	c.Action("list", c.list)
	c.Action("get", c.get)
	return c, nil
}

// Load takes the environment snapshot.
func (c *Controller) Load(ctx context.Context) error {
	c.vars = make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && strings.HasPrefix(pair[0], c.prefix) {
			c.vars[pair[0]] = pair[1]
		}
	}
	return nil
}

func (c *Controller) list(_ context.Context, _ message.Request, resp message.Response) error {
	all := make(map[string]string, len(c.vars))
	for k, v := range c.vars {
		all[k] = v
	}
	resp.SetData(all)
	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}

func (c *Controller) get(_ context.Context, req message.Request, resp message.Response) error {
	key, ok := req.Payload().(string)
	if !ok || key == "" {
		resp.SetStatus(message.StatusBadRequest, "The action 'get' needs the variable name as payload!", nil)
		return resp.Send()
	}
	v, ok := c.vars[key]
	if !ok {
		resp.SetStatus(message.StatusNotFound, fmt.Sprintf("The '%s' resource has no variable '%s'", c.Name(), key), nil)
		return resp.Send()
	}
	resp.SetData(v)
	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}
