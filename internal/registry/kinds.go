package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/svcgrid/internal/controller"
)

// RegisterKind makes a controller factory available to manifests under kind.
// Kinds are wired at startup, so a duplicate is a programmer error and panics.
func (r *Registry) RegisterKind(kind string, factory controller.Factory) {
	if kind == "" {
		panic("controller kind must not be empty")
	}
	if factory == nil {
		panic(fmt.Sprintf("nil factory for controller kind '%s'", kind))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[kind]; exists {
		panic(fmt.Sprintf("controller kind '%s' already registered", kind))
	}
	slog.Debug("Registering controller kind.", "kind", kind)
	r.kinds[kind] = factory
}

// Kind returns the factory registered for kind.
func (r *Registry) Kind(kind string) (controller.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.kinds[kind]
	return f, ok
}

// Kinds returns all registered kind names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()
	sort.Strings(kinds)
	return kinds
}
