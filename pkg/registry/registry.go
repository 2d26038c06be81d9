package registry

import (
	"sort"
	"sync"

	"github.com/aretw0/jsonview/pkg/domain"
)

// Registry maps action types to handlers.
// It is filled during startup and only read afterwards.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]domain.ActionHandler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]domain.ActionHandler),
	}
}

// Register adds a handler for an action type.
// If a handler with the same type exists, it is overwritten.
func (r *Registry) Register(actionType string, fn domain.ActionHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[actionType] = fn
}

// Has reports whether a handler is registered for the type.
func (r *Registry) Has(actionType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[actionType]
	return ok
}

// Get looks up the handler for an action type.
func (r *Registry) Get(actionType string) (domain.ActionHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[actionType]
	return fn, ok
}

// Types returns the registered action types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
