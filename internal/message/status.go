package message

// Status is the outcome code carried by a Response.
type Status int

const (
	StatusOK                 Status = 200
	StatusCreated            Status = 201
	StatusBadRequest         Status = 400
	StatusNotFound           Status = 404
	StatusServerError        Status = 500
	StatusNotImplemented     Status = 501
	StatusServiceUnavailable Status = 503
)

// IsSuccess reports whether the status is in the 2xx range.
func (s Status) IsSuccess() bool { return s >= 200 && s < 300 }

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCreated:
		return "created"
	case StatusBadRequest:
		return "bad_request"
	case StatusNotFound:
		return "not_found"
	case StatusServerError:
		return "server_error"
	case StatusNotImplemented:
		return "not_implemented"
	case StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

// ErrorKind categorizes a dispatch failure.
type ErrorKind string

const (
	KindObjectNotFound ErrorKind = "object_not_found" // unregistered target name
	KindActionNotFound ErrorKind = "action_not_found" // controller lacks the action
	KindServiceError   ErrorKind = "service_error"    // controller failed to load
	KindNotImplemented ErrorKind = "not_implemented"  // action absent at call time
	KindServerError    ErrorKind = "server_error"     // action broke its contract or failed
)

// Status returns the status code a response carries for this kind.
func (k ErrorKind) Status() Status {
	switch k {
	case KindObjectNotFound, KindActionNotFound:
		return StatusNotFound
	case KindServiceError:
		return StatusServiceUnavailable
	case KindNotImplemented:
		return StatusNotImplemented
	default:
		return StatusServerError
	}
}
