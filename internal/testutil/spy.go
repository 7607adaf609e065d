package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/svcgrid/internal/controller"
	"github.com/specialistvlad/svcgrid/internal/message"
)

// ErrSpyAction is returned by the spy's "fail" action.
var ErrSpyAction = errors.New("testutil: spy action failed")

// Spy is a configurable controller factory that records what happens to the
// controllers it builds.
//
// Every spy controller has these actions:
//
//	list   -> 200 with the controller name as data
//	create -> 201, wrapped by beforeCreate/afterCreate unless disabled
//	fail   -> returns ErrSpyAction without sending
//	boom   -> panics
type Spy struct {
	Constructed atomic.Int32
	Loaded      atomic.Int32

	// LoadDelay is slept in Load. Gate, when set, blocks Load until closed.
	LoadDelay time.Duration
	Gate      chan struct{}
	// LoadErr fails Load; FactoryErr fails construction.
	LoadErr    error
	FactoryErr error
	// ReturnNil makes the factory return (nil, nil).
	ReturnNil bool

	NoBeforeCreate bool
	NoAfterCreate  bool
	// FailBeforeCreate makes beforeCreate return ErrSpyAction.
	FailBeforeCreate bool

	mu    sync.Mutex
	calls []string
}

// Calls returns the hook and action names called so far, in order.
func (s *Spy) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Spy) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}

// SpyController is the controller built by Spy.Factory.
type SpyController struct {
	*controller.Base
	spy  *Spy
	Opts controller.Options
}

// Factory returns the controller.Factory backed by s.
func (s *Spy) Factory() controller.Factory {
	return func(name string, svc controller.Service, opts controller.Options) (controller.Controller, error) {
		s.Constructed.Add(1)
		if s.FactoryErr != nil {
			return nil, s.FactoryErr
		}
		if s.ReturnNil {
			return nil, nil
		}
		base, err := controller.NewBase(name, svc)
		if err != nil {
			return nil, err
		}
		c := &SpyController{Base: base, spy: s, Opts: opts}

		c.Action("list", func(_ context.Context, _ message.Request, resp message.Response) error {
			s.record("list")
			resp.SetData(name)
			resp.SetStatus(message.StatusOK, "", nil)
			return resp.Send()
		})
		c.Action("create", func(_ context.Context, _ message.Request, resp message.Response) error {
			s.record("create")
			resp.SetStatus(message.StatusCreated, "", nil)
			return resp.Send()
		})
		if !s.NoBeforeCreate {
			c.Hook(controller.Before, "create", func(context.Context, message.Request, message.Response) error {
				s.record("beforeCreate")
				if s.FailBeforeCreate {
					return ErrSpyAction
				}
				return nil
			})
		}
		if !s.NoAfterCreate {
			c.Hook(controller.After, "create", func(context.Context, message.Request, message.Response) error {
				s.record("afterCreate")
				return nil
			})
		}
		c.Action("fail", func(context.Context, message.Request, message.Response) error {
			s.record("fail")
			return ErrSpyAction
		})
		c.Action("boom", func(context.Context, message.Request, message.Response) error {
			s.record("boom")
			panic("spy exploded")
		})
		return c, nil
	}
}

// Load applies the configured gate, delay and error.
func (c *SpyController) Load(ctx context.Context) error {
	c.spy.Loaded.Add(1)
	if c.spy.Gate != nil {
		<-c.spy.Gate
	}
	if c.spy.LoadDelay > 0 {
		time.Sleep(c.spy.LoadDelay)
	}
	return c.spy.LoadErr
}
