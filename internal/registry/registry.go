package registry

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/specialistvlad/svcgrid/internal/controller"
)

// Module is the interface that all compiled-in controller modules must
// implement to contribute kinds.
type Module interface {
	Register(r *Registry)
}

// Registry holds the controller registrations and the kind catalog for a
// single service instance. It is safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	registrations map[string]Registration
	kinds         map[string]controller.Factory
}

// New creates an empty Registry and lets each module register its kinds.
func New(modules ...Module) *Registry {
	r := &Registry{
		registrations: make(map[string]Registration),
		kinds:         make(map[string]controller.Factory),
	}
	for _, mod := range modules {
		mod.Register(r)
	}
	return r
}

// Register stores reg under name, overwriting any earlier registration. A
// nil reg registers the name for auto-provisioning.
func (r *Registry) Register(name string, reg Registration) {
	if reg == nil {
		reg = Auto{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, exists := r.registrations[name]; exists {
		slog.Debug("Overwriting controller registration.", "controller", name, "previous", prev.String(), "registration", reg.String())
	}
	r.registrations[name] = reg
}

// IsRegistered reports whether a registration exists for name.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.registrations[name]
	return ok
}

// Lookup returns the registration stored under name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.registrations[name]
	return reg, ok
}

// Names returns all registered controller names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.registrations))
	for name := range r.registrations {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
