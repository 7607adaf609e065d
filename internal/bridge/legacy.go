// Package bridge translates legacy, resource-oriented requests into the
// (object, action) requests the dispatcher understands.
package bridge

import (
	"errors"
	"strings"

	"github.com/specialistvlad/svcgrid/internal/message"
)

// ErrNoResource is returned for legacy requests that do not name a resource.
var ErrNoResource = errors.New("bridge: legacy request has no resource")

// Legacy maps HTTP-like methods to the conventional action names:
//
//	GET     -> list, or listOne when an ID is present
//	POST    -> create
//	PUT     -> update
//	PATCH   -> update
//	DELETE  -> delete
//
// Any other method is lower-cased and used as the action name.
type Legacy struct{}

// NewLegacy returns the legacy bridge. It holds no state, so one instance is
// shared by the whole service.
func NewLegacy() *Legacy { return &Legacy{} }

// Convert builds a request from raw. The payload is raw.Body; when raw.ID is
// set it is merged into an object body under "id", or used as the payload
// itself when there is no body.
func (b *Legacy) Convert(raw *message.LegacyRequest, _ message.Response) (message.Request, error) {
	if raw == nil || strings.TrimSpace(raw.Resource) == "" {
		return nil, ErrNoResource
	}
	return message.NewRequest(raw.Resource, actionFor(raw), payloadFor(raw)), nil
}

func actionFor(raw *message.LegacyRequest) string {
	switch strings.ToUpper(raw.Method) {
	case "", "GET":
		if raw.ID != "" {
			return "listOne"
		}
		return "list"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(raw.Method)
	}
}

func payloadFor(raw *message.LegacyRequest) any {
	if raw.ID == "" {
		return raw.Body
	}
	switch body := raw.Body.(type) {
	case nil:
		return raw.ID
	case map[string]any:
		merged := make(map[string]any, len(body)+1)
		for k, v := range body {
			merged[k] = v
		}
		merged["id"] = raw.ID
		return merged
	default:
		return body
	}
}
