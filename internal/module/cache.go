package module

import (
	"sort"
	"sync"
)

// Cache holds the handles a resolver has produced, at most one per name.
// In-progress handles are stored too so that a unit referring back to itself
// while executing sees the partial handle instead of loading again.
type Cache struct {
	mu      sync.RWMutex
	handles map[string]*Handle
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{handles: map[string]*Handle{}}
}

// Get returns the handle stored for name.
func (c *Cache) Get(name string) (*Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handles[name]
	return h, ok
}

// Store records h under its name unless another handle is already present,
// in which case the existing handle is returned.
func (c *Cache) Store(h *Handle) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.handles[h.Name()]; ok {
		return existing
	}
	c.handles[h.Name()] = h
	return h
}

// Discard removes h. A different handle stored under the same name is left alone.
func (c *Cache) Discard(h *Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.handles[h.Name()]; ok && current == h {
		delete(c.handles, h.Name())
		return true
	}
	return false
}

// Names returns the sorted names of all cached handles.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.handles))
	for name := range c.handles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}
