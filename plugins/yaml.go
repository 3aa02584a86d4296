package plugins

import (
	"gopkg.in/yaml.v3"
)

// NewYAMLLoader loads .yaml/.yml units whose document is a mapping.
func NewYAMLLoader() Loader {
	return &dataLoader{
		format:     "yaml",
		extensions: []string{".yaml", ".yml"},
		decode: func(_ string, data []byte) (map[string]any, error) {
			var values map[string]any
			if err := yaml.Unmarshal(data, &values); err != nil {
				return nil, err
			}
			return values, nil
		},
	}
}
