package dispatcher

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/svcgrid/internal/message"
)

// ErrNoBridge is returned by HandleLegacy when no bridge was configured.
var ErrNoBridge = errors.New("dispatcher: no legacy request bridge configured")

// Error describes a dispatch failure. It is passed as the cause to
// Response.SendError so the response carries the full context.
type Error struct {
	Kind    message.ErrorKind
	Service string
	Object  string
	Action  string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: service '%s', controller '%s', action '%s'", e.Kind, e.Service, e.Object, e.Action)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }
