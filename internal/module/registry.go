package module

import (
	"fmt"
	"sort"
	"sync"
)

// Factory produces the symbols of a registry-backed unit.
type Factory func() (Symbols, error)

// Registry maintains units that are known at build time, keyed by dotted name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register installs a unit factory. Returns an error if the name already exists.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("module: name is required")
	}
	if factory == nil {
		return fmt.Errorf("module: factory is required for %s", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("module: %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Has reports whether a factory is registered under name.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Import builds a loaded handle for name from its factory.
func (r *Registry) Import(name string) (*Handle, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	symbols, err := factory()
	if err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	h := NewHandle(name, SourceRegistry, "")
	for symbol, value := range symbols {
		h.Define(symbol, value)
	}
	h.MarkLoaded()
	return h, nil
}

// Names returns a sorted list of registered unit names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
