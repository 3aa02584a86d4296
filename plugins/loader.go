package plugins

import (
	"context"
	"strings"

	"github.com/kingrea/sqeezz/internal/module"
	"github.com/traefik/yaegi/interp"
)

// Loader executes a unit file and defines its exported symbols on the handle.
type Loader interface {
	// Extensions lists the file extensions (with leading dot) the loader handles.
	Extensions() []string
	Load(path string, h *module.Handle) error
}

// DefaultLoaders returns one loader per supported unit format. exports are
// made importable to interpreted Go units.
func DefaultLoaders(exports interp.Exports) []Loader {
	return []Loader{
		&GoLoader{Exports: exports},
		NewYAMLLoader(),
		NewTOMLLoader(),
		NewCUELoader(),
		NewHCLLoader(),
		NewWasmLoader(context.Background()),
	}
}

// ByExtension indexes loaders by lower-cased extension. Earlier loaders win.
func ByExtension(loaders []Loader) map[string]Loader {
	index := make(map[string]Loader)
	for _, loader := range loaders {
		if loader == nil {
			continue
		}
		for _, ext := range loader.Extensions() {
			ext = strings.ToLower(ext)
			if _, taken := index[ext]; taken {
				continue
			}
			index[ext] = loader
		}
	}
	return index
}
