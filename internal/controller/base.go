package controller

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/specialistvlad/svcgrid/internal/ctxlog"
	"github.com/specialistvlad/svcgrid/internal/message"
)

// Action is a single operation a controller exposes. Lifecycle hooks share
// the same signature.
type Action func(ctx context.Context, req message.Request, resp message.Response) error

// Phase names the point in the chain a lifecycle hook runs at.
type Phase string

const (
	Before Phase = "before"
	After  Phase = "after"
)

// HookName is the conventional name of the hook for phase and action, e.g.
// (Before, "create") -> "beforeCreate".
func HookName(phase Phase, action string) string {
	if action == "" {
		return string(phase)
	}
	r, size := utf8.DecodeRuneInString(action)
	return string(phase) + string(unicode.ToUpper(r)) + action[size:]
}

type hookKey struct {
	phase  Phase
	action string
}

// Base implements everything in Controller except construction. The action
// and hook tables must be filled before the controller is returned from its
// Factory or Load; they are read without locking afterwards.
type Base struct {
	name    string
	service Service
	actions map[string]Action
	hooks   map[hookKey]Action
}

// NewBase validates the controller identity and returns an empty Base.
func NewBase(name string, svc Service) (*Base, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if svc == nil {
		return nil, fmt.Errorf("%w (controller '%s')", ErrNoService, name)
	}
	return &Base{
		name:    name,
		service: svc,
		actions: make(map[string]Action),
		hooks:   make(map[hookKey]Action),
	}, nil
}

func (b *Base) Name() string     { return b.name }
func (b *Base) Service() Service { return b.service }

// Load is a no-op. Controllers that need initialization shadow it.
func (b *Base) Load(context.Context) error { return nil }

// Action registers fn under name, replacing any earlier registration.
func (b *Base) Action(name string, fn Action) {
	if fn == nil {
		panic(fmt.Sprintf("controller '%s': nil action '%s'", b.name, name))
	}
	b.actions[name] = fn
}

// Hook registers fn to run at phase around action.
func (b *Base) Hook(phase Phase, action string, fn Action) {
	if phase != Before && phase != After {
		panic(fmt.Sprintf("controller '%s': unknown lifecycle phase '%s'", b.name, phase))
	}
	if fn == nil {
		panic(fmt.Sprintf("controller '%s': nil hook '%s'", b.name, HookName(phase, action)))
	}
	b.hooks[hookKey{phase: phase, action: action}] = fn
}

// HasAction reports whether an action (not a hook) is registered under name.
func (b *Base) HasAction(name string) bool {
	_, ok := b.actions[name]
	return ok
}

// Actions lists the registered action names in sorted order.
func (b *Base) Actions() []string {
	names := make([]string, 0, len(b.actions))
	for name := range b.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallMethod invokes the action registered under name. A missing action is
// answered with a not_implemented status; that is not an error of the call
// itself, so nil is returned.
func (b *Base) CallMethod(ctx context.Context, name string, req message.Request, resp message.Response) error {
	_, err := b.callMethod(ctx, name, req, resp)
	return err
}

// CallLifeCycleMethod runs the hook for (phase, action) if there is one.
func (b *Base) CallLifeCycleMethod(ctx context.Context, action string, phase Phase, req message.Request, resp message.Response) error {
	_, err := b.callLifeCycle(ctx, action, phase, req, resp)
	return err
}

// Request runs beforeX, X and afterX. The chain stops at the first step
// that returns an error or breaks its contract, and after a before hook
// that already sent the response.
func (b *Base) Request(ctx context.Context, action string, req message.Request, resp message.Response) error {
	if stop, err := b.callLifeCycle(ctx, action, Before, req, resp); stop || err != nil || resp.Sent() {
		return err
	}
	if stop, err := b.callMethod(ctx, action, req, resp); stop || err != nil {
		return err
	}
	_, err := b.callLifeCycle(ctx, action, After, req, resp)
	return err
}

func (b *Base) callLifeCycle(ctx context.Context, action string, phase Phase, req message.Request, resp message.Response) (bool, error) {
	fn, ok := b.hooks[hookKey{phase: phase, action: action}]
	if !ok {
		return false, nil
	}
	return b.invoke(ctx, HookName(phase, action), fn, req, resp)
}

func (b *Base) callMethod(ctx context.Context, name string, req message.Request, resp message.Response) (bool, error) {
	fn, ok := b.actions[name]
	if !ok {
		resp.SetStatus(message.StatusNotImplemented, fmt.Sprintf("The action '%s' on the '%s' resource was not implemented!", name, b.name), nil)
		if err := resp.Send(); err != nil {
			ctxlog.FromContext(ctx).Warn("Failed to send not-implemented response.", "controller", b.name, "action", name, "error", err)
		}
		return true, nil
	}
	return b.invoke(ctx, name, fn, req, resp)
}

// invoke calls fn and converts a panic into a server_error response. The
// returned bool is true when the chain must stop without an error.
func (b *Base) invoke(ctx context.Context, label string, fn Action, req message.Request, resp message.Response) (stop bool, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		logger := ctxlog.FromContext(ctx)
		logger.Error("Action panicked.", "controller", b.name, "action", label, "panic", r)

		resp.SetStatus(
			message.StatusServerError,
			fmt.Sprintf("The action '%s' on the '%s' failed!", label, b.name),
			fmt.Errorf("%w: action '%s' on the '%s' resource panicked: %v", ErrContractViolation, label, b.name, r),
		)
		if sendErr := resp.Send(); sendErr != nil {
			logger.Warn("Failed to send server-error response.", "controller", b.name, "action", label, "error", sendErr)
		}
		stop, err = true, nil
	}()
	return false, fn(ctx, req, resp)
}
