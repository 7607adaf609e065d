package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/message"
	"github.com/specialistvlad/svcgrid/internal/registry"
)

// Kind is the controller kind this module registers.
const Kind = "print"

// Module implements the registry.Module interface for this package.
// Out is where printed payloads go; nil means os.Stdout.
type Module struct {
	Out io.Writer
}

// Register registers the print kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	var mu sync.Mutex
	r.RegisterKind(Kind, func(name string, svc controller.Service, opts controller.Options) (controller.Controller, error) {
		return newController(name, svc, opts, out, &mu)
	})
}

// Controller writes request payloads to the module's writer.
type Controller struct {
	*controller.Base
	prefix string
	out    io.Writer
	mu     *sync.Mutex // shared by every controller writing to out
}

func newController(name string, svc controller.Service, opts controller.Options, out io.Writer, mu *sync.Mutex) (controller.Controller, error) {
	base, err := controller.NewBase(name, svc)
	if err != nil {
		return nil, err
	}
	c := &Controller{Base: base, prefix: opts.String("prefix", "      "), out: out, mu: mu}
	c.Action("print", c.print)
	return c, nil
}

// print writes the payload, one sorted key per line for objects.
func (c *Controller) print(ctx context.Context, req message.Request, resp message.Response) error {
	ctxlog.FromContext(ctx).Info("Printing payload", "controller", c.Name(), "request_id", req.ID())

	c.mu.Lock()
	err := c.write(req.Payload())
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("printing payload of request %s: %w", req.ID(), err)
	}

	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}

func (c *Controller) write(payload any) error {
	switch v := payload.(type) {
	case nil:
		_, err := fmt.Fprintf(c.out, "%s(null)\n", c.prefix)
		return err
	case map[string]any:
		// Sort keys for consistent output
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(c.out, "%s%s = %#v\n", c.prefix, k, v[k]); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintf(c.out, "%s%#v\n", c.prefix, v)
		return err
	}
}
