package plugins

import (
	"reflect"
	"testing"

	"github.com/kingrea/sqeezz/internal/module"
	"github.com/traefik/yaegi/interp"
)

func TestRegisterStdlibExposesJSON(t *testing.T) {
	reg := module.NewRegistry()
	if err := RegisterStdlib(reg); err != nil {
		t.Fatalf("register stdlib: %v", err)
	}
	for _, name := range []string{"json", "encoding.json", "strings"} {
		h, err := reg.Import(name)
		if err != nil {
			t.Fatalf("import %s: %v", name, err)
		}
		if h.Source() != module.SourceRegistry || !h.Loaded() {
			t.Fatalf("%s: unexpected handle %s", name, h)
		}
	}
	h, _ := reg.Import("json")
	if _, ok := h.Lookup("Marshal"); !ok {
		t.Fatalf("json handle missing Marshal: %v", h.Names())
	}
	if reg.Has("rand") {
		t.Fatalf("ambiguous short name rand should not be registered")
	}
	if !reg.Has("math.rand") || !reg.Has("crypto.rand") {
		t.Fatalf("dotted rand packages should be registered")
	}
}

func TestRegisterExportsSkipsDomainsAndWrappers(t *testing.T) {
	exports := interp.Exports{
		"example.com/tool/tool": {"Run": reflect.ValueOf(func() {})},
		"acme/widgets/widgets": {
			"New":      reflect.ValueOf(func() int { return 1 }),
			"_Widgets": reflect.ValueOf((*interface{})(nil)),
		},
	}
	reg := module.NewRegistry()
	if err := RegisterExports(reg, exports); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := reg.Names(); !reflect.DeepEqual(got, []string{"acme.widgets", "widgets"}) {
		t.Fatalf("unexpected names %v", got)
	}
	h, err := reg.Import("widgets")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(h.Names(), []string{"New"}) {
		t.Fatalf("wrapper symbols leaked: %v", h.Names())
	}
}
