package message

import (
	"github.com/google/uuid"
)

// Request is an inbound call addressed to an action on a named controller.
type Request interface {
	ID() string
	ObjectName() string
	ActionName() string
	Payload() any
}

// Simple is the in-memory Request implementation.
type Simple struct {
	id      string
	object  string
	action  string
	payload any
}

// NewRequest builds a Request with a fresh random ID.
func NewRequest(object, action string, payload any) *Simple {
	return &Simple{
		id:      uuid.NewString(),
		object:  object,
		action:  action,
		payload: payload,
	}
}

func (r *Simple) ID() string         { return r.id }
func (r *Simple) ObjectName() string { return r.object }
func (r *Simple) ActionName() string { return r.action }
func (r *Simple) Payload() any       { return r.payload }

// LegacyRequest is the older, resource-oriented request shape. It names a
// resource and an HTTP-like method rather than an explicit action and must
// pass through a bridge before it can be dispatched.
type LegacyRequest struct {
	Resource string
	Method   string
	ID       string
	Body     any
}
