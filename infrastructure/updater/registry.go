package updater

import (
	"github.com/depshift/depshift/domain"
)

// Registry manages all registered ecosystem updater implementations.
type Registry struct {
	updaters map[string]domain.Updater
	order    []string
}

// NewRegistry creates an empty updater registry.
func NewRegistry() *Registry {
	return &Registry{
		updaters: make(map[string]domain.Updater),
	}
}

// Register adds an updater under its name. Re-registering a name replaces
// the previous entry but keeps its position.
func (r *Registry) Register(u domain.Updater) {
	if _, exists := r.updaters[u.Name()]; !exists {
		r.order = append(r.order, u.Name())
	}
	r.updaters[u.Name()] = u
}

// Get returns the updater with the given name, or nil if not registered.
func (r *Registry) Get(name string) domain.Updater {
	return r.updaters[name]
}

// All returns every registered updater in registration order.
func (r *Registry) All() []domain.Updater {
	result := make([]domain.Updater, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.updaters[name])
	}
	return result
}

// Names returns the list of registered updater names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
