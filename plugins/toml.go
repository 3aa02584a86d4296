package plugins

import (
	"github.com/pelletier/go-toml/v2"
)

// NewTOMLLoader loads .toml units. Integers decode as int64.
func NewTOMLLoader() Loader {
	return &dataLoader{
		format:     "toml",
		extensions: []string{".toml"},
		decode: func(_ string, data []byte) (map[string]any, error) {
			var values map[string]any
			if err := toml.Unmarshal(data, &values); err != nil {
				return nil, err
			}
			return values, nil
		},
	}
}
