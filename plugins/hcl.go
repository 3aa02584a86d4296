package plugins

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// NewHCLLoader loads .hcl units made of top-level attributes. Values go
// through cty's JSON form, so numbers surface as float64.
func NewHCLLoader() Loader {
	return &dataLoader{
		format:     "hcl",
		extensions: []string{".hcl"},
		decode:     decodeHCL,
	}
}

func decodeHCL(path string, data []byte) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	values := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		raw, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		values[name] = decoded
	}
	return values, nil
}
