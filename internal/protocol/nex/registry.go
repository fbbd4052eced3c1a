package nex

import (
	"sort"
	"sync"
)

// Factory builds a fresh, zero-valued structure instance.
type Factory func() Structure

// Registry maps polymorphic type names to structure factories. Build it once
// at startup; reads are safe from any goroutine.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry preloaded with the common structures.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	registerCommon(r)
	return r
}

// Register binds name to f. The last registration for a name wins.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Lookup(name string) (Factory, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// New builds an instance of the structure registered as name.
func (r *Registry) New(name string) (Structure, bool) {
	f, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	return f(), true
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
