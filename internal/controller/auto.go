package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/inmemorystore"
	"github.com/specialistvlad/svcgrid/internal/message"
)

// Auto is the controller provisioned for names registered without an
// implementation. It exposes the conventional list, listOne, create, update
// and delete actions over an in-memory record store.
type Auto struct {
	*Base
	records  *inmemorystore.Store
	maxItems int
}

// NewAuto is the Factory for the auto-provisioned controller. The option
// "max_records" caps the number of stored records (0 means unlimited).
func NewAuto(name string, svc Service, opts Options) (Controller, error) {
	base, err := NewBase(name, svc)
	if err != nil {
		return nil, err
	}
	a := &Auto{Base: base, maxItems: opts.Int("max_records", 0)}

	a.Action("list", a.list)
	a.Action("listOne", a.listOne)
	a.Action("create", a.create)
	a.Action("update", a.update)
	a.Action("delete", a.delete)
	return a, nil
}

// Load creates the controller's record store.
func (a *Auto) Load(ctx context.Context) error {
	a.records = inmemorystore.New()
	ctxlog.FromContext(ctx).Debug("Auto controller loaded.", "controller", a.Name(), "max_records", a.maxItems)
	return nil
}

func (a *Auto) list(ctx context.Context, _ message.Request, resp message.Response) error {
	resp.SetData(a.records.List(ctx))
	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}

func (a *Auto) listOne(ctx context.Context, req message.Request, resp message.Response) error {
	id, ok := recordID(req.Payload())
	if !ok {
		return a.badRequest(resp, "listOne", "an id is required")
	}
	rec, err := a.records.Get(ctx, id)
	if err != nil {
		return a.fail(resp, "listOne", id, err)
	}
	resp.SetData(rec)
	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}

func (a *Auto) create(ctx context.Context, req message.Request, resp message.Response) error {
	fields, ok := req.Payload().(map[string]any)
	if !ok {
		return a.badRequest(resp, "create", "the payload must be an object")
	}
	rec, err := a.records.CreateCapped(ctx, fields, a.maxItems)
	if errors.Is(err, inmemorystore.ErrFull) {
		return a.badRequest(resp, "create", fmt.Sprintf("the record limit of %d was reached", a.maxItems))
	}
	if err != nil {
		return err
	}
	resp.SetData(rec)
	resp.SetStatus(message.StatusCreated, "", nil)
	return resp.Send()
}

func (a *Auto) update(ctx context.Context, req message.Request, resp message.Response) error {
	fields, ok := req.Payload().(map[string]any)
	if !ok {
		return a.badRequest(resp, "update", "the payload must be an object")
	}
	id, ok := recordID(fields)
	if !ok {
		return a.badRequest(resp, "update", "an id is required")
	}
	rec, err := a.records.Update(ctx, id, fields)
	if err != nil {
		return a.fail(resp, "update", id, err)
	}
	resp.SetData(rec)
	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}

func (a *Auto) delete(ctx context.Context, req message.Request, resp message.Response) error {
	id, ok := recordID(req.Payload())
	if !ok {
		return a.badRequest(resp, "delete", "an id is required")
	}
	if err := a.records.Delete(ctx, id); err != nil {
		return a.fail(resp, "delete", id, err)
	}
	resp.SetStatus(message.StatusOK, "", nil)
	return resp.Send()
}

func (a *Auto) badRequest(resp message.Response, action, reason string) error {
	resp.SetStatus(message.StatusBadRequest, fmt.Sprintf("The action '%s' on the '%s' resource was rejected: %s", action, a.Name(), reason), nil)
	return resp.Send()
}

func (a *Auto) fail(resp message.Response, action, id string, err error) error {
	if errors.Is(err, inmemorystore.ErrNotFound) {
		resp.SetStatus(message.StatusNotFound, fmt.Sprintf("The '%s' resource has no record '%s'", a.Name(), id), err)
		return resp.Send()
	}
	return fmt.Errorf("action '%s' on '%s': %w", action, a.Name(), err)
}

// recordID accepts a bare string ID or an object with an "id" attribute.
func recordID(payload any) (string, bool) {
	switch p := payload.(type) {
	case string:
		return p, p != ""
	case map[string]any:
		id, ok := p[inmemorystore.IDField].(string)
		return id, ok && id != ""
	}
	return "", false
}
