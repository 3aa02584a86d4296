package plugins

import (
	"fmt"
	"os"
	"reflect"

	"github.com/kingrea/sqeezz/internal/module"
)

// decodeFunc turns a data unit into its top-level key/value pairs.
type decodeFunc func(path string, data []byte) (map[string]any, error)

// dataLoader serves declarative units: there is no code to run, so loading
// is decoding and every top-level key becomes a symbol.
type dataLoader struct {
	format     string
	extensions []string
	decode     decodeFunc
}

func (d *dataLoader) Extensions() []string {
	return append([]string{}, d.extensions...)
}

func (d *dataLoader) Load(path string, h *module.Handle) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("plugin: read %s: %w", path, err)
	}
	values, err := d.decode(path, data)
	if err != nil {
		return fmt.Errorf("plugin: decode %s %s: %w", d.format, path, err)
	}
	for key, value := range values {
		h.Define(key, symbolValue(value))
	}
	return nil
}

// symbolValue keeps nil entries readable: reflect.ValueOf(nil) is invalid.
func symbolValue(value any) reflect.Value {
	if value == nil {
		return reflect.ValueOf(&value).Elem()
	}
	return reflect.ValueOf(value)
}
