package config

// Model is the unified, format-agnostic representation of the entire
// application configuration.
type Model struct {
	Service        *Service
	Requests       []*Request
	LegacyRequests []*LegacyRequest
}

// Service is the format-agnostic representation of a `service` block.
type Service struct {
	Name        string
	Options     map[string]any
	Controllers []*ControllerDeclaration
}

// ControllerDeclaration registers a controller explicitly. At most one of
// Kind and Path is set; neither means auto-provisioning.
type ControllerDeclaration struct {
	Name string
	Kind string
	Path string
}

// Request is one scripted call, sent Count times.
type Request struct {
	Object  string
	Action  string
	Count   int
	Payload any
}

// LegacyRequest is one scripted call in the legacy wire shape.
type LegacyRequest struct {
	Resource string
	Method   string
	ID       string
	Body     any
	Count    int
}
