// Package config loads the chainkit configuration file and applies
// defaults and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvStorePath overrides the run archive location when set.
const EnvStorePath = "CHAINKIT_STORE"

// Config is the full chainkit configuration.
type Config struct {
	// StorePath is where the run archive database lives.
	StorePath string `yaml:"store_path"`

	Audit   AuditConfig   `yaml:"audit"`
	Logging LoggingConfig `yaml:"logging"`
}

// AuditConfig bounds the Datalog auditor.
type AuditConfig struct {
	// FactLimit caps how many derived facts a run may produce.
	FactLimit int `yaml:"fact_limit"`
	// QueryTimeout bounds one evaluation.
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		StorePath: filepath.Join(defaultHome(), "runs.db"),
		Audit: AuditConfig{
			FactLimit:    200000,
			QueryTimeout: 30 * time.Second,
		},
	}
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chainkit"
	}
	return filepath.Join(home, ".chainkit")
}

// Load reads the configuration at path, falling back to defaults for
// anything unset. An empty path yields the defaults. The CHAINKIT_STORE
// environment variable wins over both.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if env := os.Getenv(EnvStorePath); env != "" {
		cfg.StorePath = env
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store_path must not be empty")
	}
	if c.Audit.FactLimit < 1 {
		return fmt.Errorf("audit.fact_limit must be positive, got %d", c.Audit.FactLimit)
	}
	if c.Audit.QueryTimeout <= 0 {
		return fmt.Errorf("audit.query_timeout must be positive, got %s", c.Audit.QueryTimeout)
	}
	return nil
}
