package plugins

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"github.com/kingrea/sqeezz/internal/module"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const goUnitPackage = "main"

// GoLoader interprets .go units. A unit is a single `package main` file; its
// top-level declarations run once and every exported var, const and func
// becomes a symbol on the handle.
type GoLoader struct {
	// Exports are importable by units in addition to the standard library.
	Exports interp.Exports
}

func (l *GoLoader) Extensions() []string {
	return []string{".go"}
}

func (l *GoLoader) Load(path string, h *module.Handle) (err error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("plugin: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return fmt.Errorf("plugin: %s is empty", path)
	}
	names, err := exportedNames(path, code)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin: %s panicked: %v", path, r)
		}
	}()
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	if len(l.Exports) > 0 {
		i.Use(l.Exports)
	}
	if _, err := i.EvalPath(path); err != nil {
		return fmt.Errorf("plugin: interpret %s: %w", path, err)
	}
	for _, name := range names {
		value, err := i.Eval(name)
		if err != nil {
			return fmt.Errorf("plugin: %s: read %s: %w", path, name, err)
		}
		h.Define(name, value)
	}
	return nil
}

// exportedNames lists the exported package-level vars, consts and funcs.
func exportedNames(path string, code []byte) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, code, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("plugin: parse %s: %w", path, err)
	}
	if file.Name.Name != goUnitPackage {
		return nil, fmt.Errorf("plugin: %s must declare package %s, found %s", path, goUnitPackage, file.Name.Name)
	}
	var names []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.IsExported() {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR && d.Tok != token.CONST {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, ident := range vs.Names {
					if ident.IsExported() {
						names = append(names, ident.Name)
					}
				}
			}
		}
	}
	return names, nil
}
