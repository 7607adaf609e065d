package message

import (
	"errors"
	"sync"
)

// ErrAlreadySent is returned by Send when the response went out before.
var ErrAlreadySent = errors.New("message: response already sent")

// Response is the channel through which every dispatch outcome is reported.
type Response interface {
	// SetStatus sets the status code, a human-readable message and an
	// optional error describing the failure.
	SetStatus(status Status, message string, err error)
	// SetData attaches the result body.
	SetData(data any)
	// SendError sets a categorized failure and sends the response.
	SendError(kind ErrorKind, message string, cause error) error
	// Send finalizes the response. It may be called once.
	Send() error
	// Sent reports whether Send has completed.
	Sent() bool
}

// Recorder is a thread-safe, in-memory Response. It keeps everything that was
// set on it so callers can inspect the outcome after dispatch.
type Recorder struct {
	mu      sync.Mutex
	status  Status
	message string
	err     error
	kind    ErrorKind
	data    any
	sent    bool
	done    chan struct{}
}

// NewRecorder returns an unsent Recorder with StatusOK preset.
func NewRecorder() *Recorder {
	return &Recorder{status: StatusOK, done: make(chan struct{})}
}

func (r *Recorder) SetStatus(status Status, message string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
	r.message = message
	r.err = err
}

func (r *Recorder) SetData(data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
}

// SendError leaves an already sent response untouched.
func (r *Recorder) SendError(kind ErrorKind, message string, cause error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent {
		return ErrAlreadySent
	}
	r.kind = kind
	r.status = kind.Status()
	r.message = message
	r.err = cause
	r.markSent()
	return nil
}

func (r *Recorder) Send() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent {
		return ErrAlreadySent
	}
	r.markSent()
	return nil
}

// markSent must be called with r.mu held.
func (r *Recorder) markSent() {
	r.sent = true
	close(r.done)
}

func (r *Recorder) Sent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent
}

// Done is closed once the response has been sent.
func (r *Recorder) Done() <-chan struct{} { return r.done }

func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Recorder) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Kind returns the error kind passed to SendError, or "" if none was.
func (r *Recorder) Kind() ErrorKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kind
}

func (r *Recorder) Data() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}
