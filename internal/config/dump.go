package config

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Dump renders the configuration as YAML. Secrets stay source references,
// so only embedded values appear in clear text.
func Dump(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}

	return out, nil
}
