package plugins

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/kingrea/sqeezz/internal/module"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// WasmLoader instantiates .wasm units in a shared wazero runtime. Each unit's
// exported functions become api.Function symbols. The start function, if
// any, runs during instantiation.
type WasmLoader struct {
	ctx     context.Context
	mu      sync.Mutex
	runtime wazero.Runtime
}

// NewWasmLoader returns a loader whose runtime is created on first use.
func NewWasmLoader(ctx context.Context) *WasmLoader {
	if ctx == nil {
		ctx = context.Background()
	}
	return &WasmLoader{ctx: ctx}
}

func (l *WasmLoader) Extensions() []string {
	return []string{".wasm"}
}

func (l *WasmLoader) Load(path string, h *module.Handle) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("plugin: read %s: %w", path, err)
	}
	rt, err := l.ensureRuntime()
	if err != nil {
		return err
	}
	compiled, err := rt.CompileModule(l.ctx, code)
	if err != nil {
		return fmt.Errorf("plugin: compile %s: %w", path, err)
	}
	cfg := wazero.NewModuleConfig().WithName(h.Name())
	mod, err := rt.InstantiateModule(l.ctx, compiled, cfg)
	if err != nil {
		_ = compiled.Close(l.ctx)
		return fmt.Errorf("plugin: instantiate %s: %w", path, err)
	}
	for name := range compiled.ExportedFunctions() {
		fn := mod.ExportedFunction(name)
		if fn == nil {
			continue
		}
		h.Define(name, reflect.ValueOf(fn))
	}
	return nil
}

// Close tears down the runtime and every module instantiated in it.
func (l *WasmLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.runtime == nil {
		return nil
	}
	err := l.runtime.Close(l.ctx)
	l.runtime = nil
	return err
}

func (l *WasmLoader) ensureRuntime() (wazero.Runtime, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.runtime != nil {
		return l.runtime, nil
	}
	rt := wazero.NewRuntime(l.ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(l.ctx, rt); err != nil {
		_ = rt.Close(l.ctx)
		return nil, fmt.Errorf("plugin: instantiate wasi: %w", err)
	}
	l.runtime = rt
	return rt, nil
}
