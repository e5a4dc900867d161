package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a full pipeline declaration: the test matrix and the deploy
// gate.
type Config struct {
	Matrix Matrix     `yaml:"matrix"`
	Deploy DeployGate `yaml:"deploy"`
}

// LoadConfig reads and validates a pipeline declaration from a YAML
// file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline config %q: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a pipeline declaration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding pipeline config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the matrix, the gate, and that the designated deploy
// job is actually part of the expansion.
func (c *Config) Validate() error {
	if err := c.Matrix.Validate(); err != nil {
		return err
	}
	if err := c.Deploy.Validate(); err != nil {
		return err
	}
	if !c.Matrix.Contains(c.Deploy.Job) {
		return fmt.Errorf("deploy gate: designated job %q is not produced by the matrix", c.Deploy.Job.Key())
	}
	return nil
}
