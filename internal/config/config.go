// Package config handles linalg CLI configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/linalg/pkg/linalg"
)

// FileName is the config file looked up in the working and config directories.
const FileName = "linalg.yaml"

// Config holds all CLI settings.
type Config struct {
	Compute ComputeConfig `yaml:"compute" json:"compute"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ComputeConfig controls how batch operations run.
type ComputeConfig struct {
	Workers int    `yaml:"workers" json:"workers"` // 0 means one per CPU
	DType   string `yaml:"dtype" json:"dtype"`     // default element type for job inputs
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Precision int    `yaml:"precision" json:"precision"` // significant digits, -1 for shortest exact
	Format    string `yaml:"format" json:"format"`       // "yaml" or "json"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	LogFile string `yaml:"log_file" json:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compute: ComputeConfig{
			Workers: 0,
			DType:   "float64",
		},
		Output: OutputConfig{
			Precision: -1,
			Format:    "yaml",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Compute.Workers < 0 {
		return fmt.Errorf("compute.workers must be >= 0, got %d", c.Compute.Workers)
	}
	if _, err := linalg.ParseDType(c.Compute.DType); err != nil {
		return fmt.Errorf("compute.dtype: %w", err)
	}
	switch c.Output.Format {
	case "yaml", "json":
	default:
		return fmt.Errorf("output.format must be yaml or json, got %q", c.Output.Format)
	}
	if c.Output.Precision < -1 || c.Output.Precision == 0 {
		return fmt.Errorf("output.precision must be -1 or a positive digit count, got %d", c.Output.Precision)
	}
	return nil
}
