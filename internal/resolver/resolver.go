package resolver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"

	"github.com/kingrea/sqeezz/internal/config"
	"github.com/kingrea/sqeezz/internal/lazy"
	"github.com/kingrea/sqeezz/internal/logbook"
	"github.com/kingrea/sqeezz/internal/module"
	"github.com/kingrea/sqeezz/plugins"
	"github.com/traefik/yaegi/interp"
)

// scriptPackage is the import path Go units use to reach their resolver.
const scriptPackage = "sqeezz/sqeezz"

// Option customizes Resolver construction.
type Option func(*Resolver)

// WithRegistry replaces the default registry. The standard library is not
// added to a caller-supplied registry.
func WithRegistry(reg *module.Registry) Option {
	return func(r *Resolver) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithCache shares a handle cache between resolvers.
func WithCache(cache *module.Cache) Option {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithLoaders replaces the default unit loaders.
func WithLoaders(loaders ...plugins.Loader) Option {
	return func(r *Resolver) {
		r.loaders = loaders
	}
}

// WithExtensions sets the order in which unit files are searched.
func WithExtensions(exts ...string) Option {
	return func(r *Resolver) {
		if len(exts) > 0 {
			r.extensions = append([]string{}, exts...)
		}
	}
}

// WithExports makes extra binary packages importable from Go units.
func WithExports(exports interp.Exports) Option {
	return func(r *Resolver) {
		for key, symbols := range exports {
			r.exports[key] = symbols
		}
	}
}

// WithLogbook journals every resolution.
func WithLogbook(book *logbook.Logbook) Option {
	return func(r *Resolver) {
		r.journal = book
	}
}

// WithoutStdlib leaves the standard library out of the default registry.
func WithoutStdlib() Option {
	return func(r *Resolver) {
		r.stdlib = false
	}
}

// Resolver resolves dotted names to module handles.
type Resolver struct {
	anchor     string
	registry   *module.Registry
	cache      *module.Cache
	loaders    []plugins.Loader
	byExt      map[string]plugins.Loader
	extensions []string
	exports    interp.Exports
	journal    *logbook.Logbook
	stdlib     bool
}

// New builds a resolver whose fallback units live under anchor.
func New(anchor string, opts ...Option) (*Resolver, error) {
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return nil, fmt.Errorf("resolver: anchor is required")
	}
	abs, err := filepath.Abs(anchor)
	if err != nil {
		return nil, fmt.Errorf("resolver: resolve anchor %s: %w", anchor, err)
	}
	r := &Resolver{
		anchor:     abs,
		extensions: append([]string{}, config.DefaultExtensions...),
		exports:    interp.Exports{},
		stdlib:     true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.registry == nil {
		r.registry = module.NewRegistry()
		if r.stdlib {
			if err := plugins.RegisterStdlib(r.registry); err != nil {
				return nil, fmt.Errorf("resolver: register stdlib: %w", err)
			}
		}
	}
	if r.cache == nil {
		r.cache = module.NewCache()
	}
	r.exports[scriptPackage] = map[string]reflect.Value{
		"Value":  reflect.ValueOf(r.Value),
		"Loaded": reflect.ValueOf(r.Loaded),
	}
	if r.loaders == nil {
		r.loaders = plugins.DefaultLoaders(r.exports)
	}
	r.byExt = plugins.ByExtension(r.loaders)
	return r, nil
}

// FromConfig builds a resolver from anchor settings. opts are applied last.
func FromConfig(cfg *config.Config, opts ...Option) (*Resolver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("resolver: config is required")
	}
	base := []Option{WithExtensions(cfg.Extensions()...)}
	if !cfg.StdlibEnabled() {
		base = append(base, WithoutStdlib())
	}
	return New(cfg.Anchor, append(base, opts...)...)
}

// Resolve returns the handle for name. Cached names return the same handle;
// registry names are imported; anything else is loaded from the anchor.
func (r *Resolver) Resolve(name string) (*module.Handle, error) {
	name = strings.TrimSpace(name)
	if h, ok := r.cache.Get(name); ok {
		return h, nil
	}
	if r.registry.Has(name) {
		return r.importRegistered(name)
	}
	return r.loadFromAnchor(name)
}

// Lazy defers Resolve(name) until the returned cell is first read.
func (r *Resolver) Lazy(name string) *lazy.Cell[*module.Handle] {
	return lazy.New(func() (*module.Handle, error) {
		return r.Resolve(name)
	})
}

// Value resolves name and returns one of its symbols.
func (r *Resolver) Value(name, symbol string) (any, error) {
	h, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return h.Value(symbol)
}

// Loaded reports whether name has a fully loaded handle in the cache. It
// never triggers resolution.
func (r *Resolver) Loaded(name string) bool {
	h, ok := r.cache.Get(strings.TrimSpace(name))
	return ok && h.Loaded()
}

// Candidates lists the files name would be loaded from, in search order.
func (r *Resolver) Candidates(name string) ([]string, error) {
	return plugins.Candidates(r.anchor, name, r.searchExtensions())
}

// Discover lists the unit names available under the anchor.
func (r *Resolver) Discover() ([]string, error) {
	return plugins.Discover(r.anchor, r.searchExtensions())
}

// Anchor returns the fallback root directory.
func (r *Resolver) Anchor() string {
	return r.anchor
}

// Registry returns the build-time registry.
func (r *Resolver) Registry() *module.Registry {
	return r.registry
}

// Cache returns the handle cache.
func (r *Resolver) Cache() *module.Cache {
	return r.cache
}

// Journal returns the logbook, which may be nil.
func (r *Resolver) Journal() *logbook.Logbook {
	return r.journal
}

// Close releases resources held by loaders, such as the wasm runtime.
func (r *Resolver) Close() error {
	var errs []error
	for _, loader := range r.loaders {
		if closer, ok := loader.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (r *Resolver) importRegistered(name string) (*module.Handle, error) {
	h, err := r.registry.Import(name)
	if err != nil {
		r.journal.Error("import %s: %v", name, err)
		return nil, err
	}
	h = r.cache.Store(h)
	r.journal.Info("resolved %s from registry", name)
	return h, nil
}

func (r *Resolver) loadFromAnchor(name string) (*module.Handle, error) {
	path, loader, err := r.locate(name)
	if err != nil {
		if errors.Is(err, module.ErrLoad) {
			r.journal.Error("%v", err)
		} else {
			r.journal.Warn("%v", err)
		}
		return nil, err
	}
	h := module.NewHandle(name, module.SourceFile, path)
	// Stored before execution so a unit that refers back to itself sees
	// the in-progress handle.
	if existing := r.cache.Store(h); existing != h {
		return existing, nil
	}
	if err := loader.Load(path, h); err != nil {
		r.cache.Discard(h)
		loadErr := &module.LoadError{Name: name, Path: path, Err: err}
		r.journal.Error("%v", loadErr)
		return nil, loadErr
	}
	h.MarkLoaded()
	r.journal.Info("loaded %s from %s (%d symbols)", name, path, h.Len())
	return h, nil
}

func (r *Resolver) locate(name string) (string, plugins.Loader, error) {
	candidates, err := r.Candidates(name)
	if err != nil {
		return "", nil, &module.NotFoundError{Name: name}
	}
	for _, path := range candidates {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			continue
		}
		if err != nil {
			return "", nil, &module.LoadError{Name: name, Path: path, Err: err}
		}
		if info.IsDir() {
			continue
		}
		return path, r.byExt[strings.ToLower(filepath.Ext(path))], nil
	}
	return "", nil, &module.NotFoundError{Name: name, Candidates: candidates}
}

// searchExtensions keeps the configured order, dropping extensions no loader serves.
func (r *Resolver) searchExtensions() []string {
	exts := make([]string, 0, len(r.extensions))
	for _, ext := range r.extensions {
		if _, ok := r.byExt[strings.ToLower(ext)]; ok {
			exts = append(exts, ext)
		}
	}
	return exts
}
