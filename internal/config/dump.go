package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dump writes the effective configuration as YAML, the same shape Load
// accepts back. Useful as a starting point for tuning the policy tables.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config encode: %w", err)
	}
	return nil
}
