// Package rfconfig is the ambient CLI/run configuration layer: a
// YAML-loadable Config with environment-variable expansion, the same
// shape the teacher's chaos-test configuration used, narrowed to what
// AgentForge's CLI actually needs (logging, reporting output, and
// execution defaults/fan-out) since there is no live cluster to discover.
package rfconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FrameworkConfig controls ambient logging.
type FrameworkConfig struct {
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// ReportingConfig controls where run artifacts and generated reports land.
type ReportingConfig struct {
	OutputDir string `yaml:"outputDir"`
	KeepLastN int    `yaml:"keepLastN"`
}

// ExecutionConfig holds execution settings. The CLI reads only CI;
// DefaultSeed, DefaultTicks, TickSeconds and MaxParallelRuns are loaded
// and validated but not used by any command.
type ExecutionConfig struct {
	CI              bool    `yaml:"ci"`
	DefaultSeed     int64   `yaml:"defaultSeed"`
	DefaultTicks    uint64  `yaml:"defaultTicks"`
	TickSeconds     float64 `yaml:"tickSeconds"`
	MaxParallelRuns int     `yaml:"maxParallelRuns"`
}

// Config is the top-level CLI configuration document.
type Config struct {
	Framework FrameworkConfig `yaml:"framework"`
	Reporting ReportingConfig `yaml:"reporting"`
	Execution ExecutionConfig `yaml:"execution"`
}

// DefaultConfig returns the configuration used when no file is present,
// matching the scenario builder's own defaults (seed 1337, ticks 100,
// tick_seconds 86400) so a bare `agentforge run` without any config file
// or scenario still behaves sensibly.
func DefaultConfig() *Config {
	return &Config{
		Framework: FrameworkConfig{LogLevel: "info", LogFormat: "text"},
		Reporting: ReportingConfig{OutputDir: "./runs", KeepLastN: 20},
		Execution: ExecutionConfig{
			CI:              os.Getenv("CI") == "true",
			DefaultSeed:     1337,
			DefaultTicks:    100,
			TickSeconds:     86400,
			MaxParallelRuns: 1,
		},
	}
}

// Load reads path, expanding ${VAR}/$VAR environment references via
// os.ExpandEnv before parsing, and falls back to DefaultConfig if the
// file does not exist (the same "generate/derive a sane default rather
// than fail" behavior the teacher's CLI bootstrap used).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("rfconfig: read %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("rfconfig: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("rfconfig: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rfconfig: write %s: %w", path, err)
	}
	return nil
}

// Validate checks the fields the CLI actually depends on being sane.
func (c *Config) Validate() error {
	if c.Execution.DefaultTicks == 0 {
		return fmt.Errorf("rfconfig: execution.defaultTicks must be > 0")
	}
	if c.Execution.TickSeconds <= 0 {
		return fmt.Errorf("rfconfig: execution.tickSeconds must be > 0")
	}
	if c.Execution.MaxParallelRuns <= 0 {
		c.Execution.MaxParallelRuns = 1
	}
	if c.Reporting.OutputDir == "" {
		c.Reporting.OutputDir = "./runs"
	}
	return nil
}
