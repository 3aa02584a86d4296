// cmd/sqeezz/main.go
//
// Entry point for the sqeezz CLI. It resolves a dotted module name the same
// way library callers do (registry first, then the anchor directory) and
// prints what it found, or opens the interactive browser with -i.

package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/kingrea/sqeezz/internal/config"
	"github.com/kingrea/sqeezz/internal/logbook"
	"github.com/kingrea/sqeezz/internal/module"
	"github.com/kingrea/sqeezz/internal/resolver"
	"github.com/kingrea/sqeezz/internal/tui"
)

func main() {
	moduleName := flag.String("module", "", "dotted module name to resolve (e.g. plugins.extra)")
	symbol := flag.String("symbol", "", "print only this symbol of the module")
	anchorDir := flag.String("anchor", "", "directory fallback units are loaded from (defaults to the binary's directory)")
	listNames := flag.Bool("list", false, "list every resolvable module name")
	interactive := flag.Bool("i", false, "open the interactive browser")
	deferred := flag.Bool("lazy", false, "bind the module lazily and resolve it on first read")
	verbose := flag.Bool("v", false, "verbose diagnostics")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "sqeezz"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.NewConfig(*anchorDir)
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	logger.Debug("anchor", "dir", cfg.Anchor, "extensions", strings.Join(cfg.Extensions(), " "))

	book, err := logbook.New(cfg.LogPath())
	if err != nil {
		logger.Warn("journal disabled", "err", err)
	}
	defer book.Close()

	r, err := resolver.FromConfig(cfg, resolver.WithLogbook(book))
	if err != nil {
		logger.Fatal("build resolver", "err", err)
	}
	defer r.Close()

	switch {
	case *interactive:
		browser, err := tui.NewBrowser(r)
		if err != nil {
			logger.Fatal("open browser", "err", err)
		}
		if _, err := tea.NewProgram(browser, tea.WithAltScreen()).Run(); err != nil {
			logger.Fatal("run browser", "err", err)
		}
	case *listNames:
		if err := printNames(r); err != nil {
			logger.Fatal("discover modules", "err", err)
		}
	case strings.TrimSpace(*moduleName) != "":
		h, err := resolveModule(r, *moduleName, *deferred, logger)
		if err != nil {
			logger.Fatal("resolve module", "name", *moduleName, "err", err)
		}
		if *symbol != "" {
			value, err := h.Value(*symbol)
			if err != nil {
				logger.Fatal("read symbol", "err", err)
			}
			fmt.Println(value)
			return
		}
		printHandle(h)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func resolveModule(r *resolver.Resolver, name string, deferred bool, logger *log.Logger) (*module.Handle, error) {
	if !deferred {
		return r.Resolve(name)
	}
	cell := r.Lazy(name)
	logger.Debug("bound lazily", "name", name, "cached", r.Cache().Len())
	h, err := cell.Get()
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved on first read", "name", name, "cached", r.Cache().Len())
	return h, nil
}

func printNames(r *resolver.Resolver) error {
	discovered, err := r.Discover()
	if err != nil {
		return err
	}
	fmt.Printf("Anchor (%s):\n", r.Anchor())
	if len(discovered) == 0 {
		fmt.Println("  (none)")
	}
	for _, name := range discovered {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("Registry:")
	for _, name := range r.Registry().Names() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func printHandle(h *module.Handle) {
	fmt.Printf("%s (%s)\n", h.Name(), h.Source())
	if h.Path() != "" {
		fmt.Printf("  path: %s\n", h.Path())
	}
	for _, name := range h.Names() {
		value, _ := h.Lookup(name)
		fmt.Printf("  %-24s %s\n", name, symbolType(value))
	}
}

func symbolType(v reflect.Value) string {
	if !v.IsValid() {
		return "<invalid>"
	}
	return v.Type().String()
}
