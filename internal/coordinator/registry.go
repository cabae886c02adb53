package coordinator

import (
	"fmt"
	"sync"
)

// Registry tracks live coordinators by entry ID. It replaces ambient global
// state with an explicit object handed to collaborators at construction
// time: register on entry activation, look up from consumers, remove on
// deactivation.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Coordinator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Coordinator)}
}

// Register stores a coordinator under the given entry ID. Registering an ID
// twice is a caller bug and returns an error.
func (r *Registry) Register(entryID string, c *Coordinator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[entryID]; exists {
		return fmt.Errorf("entry %q is already registered", entryID)
	}
	r.entries[entryID] = c
	return nil
}

// Lookup returns the coordinator for an entry ID, if registered.
func (r *Registry) Lookup(entryID string) (*Coordinator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[entryID]
	return c, ok
}

// Remove deletes the registration and returns the removed coordinator so the
// caller can tear it down. The registry does not stop coordinators itself;
// their lifetime belongs to whoever runs them.
func (r *Registry) Remove(entryID string) (*Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.entries[entryID]
	if ok {
		delete(r.entries, entryID)
	}
	return c, ok
}

// Len reports the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
