package plugins

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// NewCUELoader loads .cue units. The evaluated value must be concrete.
func NewCUELoader() Loader {
	return &dataLoader{
		format:     "cue",
		extensions: []string{".cue"},
		decode: func(path string, data []byte) (map[string]any, error) {
			ctx := cuecontext.New()
			value := ctx.CompileBytes(data, cue.Filename(path))
			if err := value.Err(); err != nil {
				return nil, err
			}
			if err := value.Validate(cue.Concrete(true)); err != nil {
				return nil, err
			}
			var values map[string]any
			if err := value.Decode(&values); err != nil {
				return nil, err
			}
			return values, nil
		},
	}
}
