package module

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Symbols maps the exported identifiers of a unit to their runtime values.
type Symbols map[string]reflect.Value

// Source records which strategy produced a handle.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceFile     Source = "file"
)

// Handle is a reference to a loaded unit, identified by its dotted name.
type Handle struct {
	name    string
	path    string
	source  Source
	loaded  bool
	symbols Symbols
}

// NewHandle returns an empty, unloaded handle. Loaders populate it with
// Define and the resolver flips it to loaded once execution succeeds.
func NewHandle(name string, source Source, path string) *Handle {
	return &Handle{
		name:    name,
		path:    path,
		source:  source,
		symbols: Symbols{},
	}
}

// Name returns the dotted module name.
func (h *Handle) Name() string {
	return h.name
}

// Path returns the file the unit was loaded from, or "" for registry units.
func (h *Handle) Path() string {
	return h.path
}

// Source reports which resolution strategy produced the handle.
func (h *Handle) Source() Source {
	return h.source
}

// Loaded reports whether resolution has completed.
func (h *Handle) Loaded() bool {
	return h.loaded
}

// MarkLoaded flags the handle as fully populated.
func (h *Handle) MarkLoaded() {
	h.loaded = true
}

// Define installs a symbol on the handle, replacing any previous value.
func (h *Handle) Define(symbol string, value reflect.Value) {
	h.symbols[symbol] = value
}

// Lookup returns the raw value bound to symbol.
func (h *Handle) Lookup(symbol string) (reflect.Value, bool) {
	v, ok := h.symbols[symbol]
	return v, ok
}

// Value returns the interface value bound to symbol.
func (h *Handle) Value(symbol string) (any, error) {
	v, ok := h.symbols[symbol]
	if !ok {
		if !h.loaded {
			return nil, fmt.Errorf("module: %s is still loading; %s is not defined yet", h.name, symbol)
		}
		return nil, fmt.Errorf("module: %s has no symbol %s", h.name, symbol)
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil, fmt.Errorf("module: %s.%s cannot be read", h.name, symbol)
	}
	return v.Interface(), nil
}

// Names returns the sorted list of defined symbols.
func (h *Handle) Names() []string {
	names := make([]string, 0, len(h.symbols))
	for name := range h.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns how many symbols the handle defines.
func (h *Handle) Len() int {
	return len(h.symbols)
}

func (h *Handle) String() string {
	state := "loading"
	if h.loaded {
		state = "loaded"
	}
	parts := []string{h.name, string(h.source), state}
	if h.path != "" {
		parts = append(parts, h.path)
	}
	return strings.Join(parts, " ")
}

// Get returns symbol converted to T.
func Get[T any](h *Handle, symbol string) (T, error) {
	var zero T
	raw, err := h.Value(symbol)
	if err != nil {
		return zero, err
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("module: %s.%s is %T, not %T", h.name, symbol, raw, zero)
	}
	return typed, nil
}
