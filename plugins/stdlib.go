package plugins

import (
	"reflect"
	"strings"

	"github.com/kingrea/sqeezz/internal/module"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// RegisterStdlib exposes the Go standard library through the registry.
func RegisterStdlib(reg *module.Registry) error {
	return RegisterExports(reg, stdlib.Symbols)
}

// RegisterExports registers every package of a yaegi symbol table. A package
// at encoding/json is registered as "encoding.json" and, when no other
// package shares the name, as "json". Packages hosted under a domain
// (github.com/...) are skipped.
func RegisterExports(reg *module.Registry, exports interp.Exports) error {
	dotted := map[string]string{}
	byName := map[string][]string{}
	for key := range exports {
		idx := strings.LastIndex(key, "/")
		if idx <= 0 {
			continue
		}
		importPath, pkgName := key[:idx], key[idx+1:]
		root := strings.SplitN(importPath, "/", 2)[0]
		if strings.Contains(root, ".") {
			continue
		}
		dotted[strings.ReplaceAll(importPath, "/", ".")] = key
		byName[pkgName] = append(byName[pkgName], key)
	}
	for name, key := range dotted {
		if reg.Has(name) {
			continue
		}
		if err := reg.Register(name, exportsFactory(exports[key])); err != nil {
			return err
		}
	}
	for name, keys := range byName {
		if len(keys) != 1 || reg.Has(name) {
			continue
		}
		if err := reg.Register(name, exportsFactory(exports[keys[0]])); err != nil {
			return err
		}
	}
	return nil
}

func exportsFactory(symbols map[string]reflect.Value) module.Factory {
	return func() (module.Symbols, error) {
		out := make(module.Symbols, len(symbols))
		for name, value := range symbols {
			// Underscore entries are yaegi's interface wrappers, not package API.
			if strings.HasPrefix(name, "_") {
				continue
			}
			out[name] = value
		}
		return out, nil
	}
}
