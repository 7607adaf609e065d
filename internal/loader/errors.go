package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRegistered is returned for names without a registration.
	ErrNotRegistered = errors.New("controller not registered")
	// ErrContract is returned when a factory yields no usable controller.
	ErrContract = errors.New("factory did not produce a valid controller")
	// ErrNoResolver is returned for Path registrations when the Loader has no Resolver.
	ErrNoResolver = errors.New("no resolver configured for path registrations")
	// ErrInvalidRegistration is returned for registration types the Loader does not know.
	ErrInvalidRegistration = errors.New("invalid registration type")
)

// LoadError wraps every failure to produce a controller with its name.
type LoadError struct {
	Name  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load the controller '%s': %v", e.Name, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }
