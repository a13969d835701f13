// Package config loads generator settings.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// ADAPTERGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ADAPTERGEN_"

type Config struct {
	// OutputDir is the root under which each adapter gets a directory named
	// after its slug.
	OutputDir string `yaml:"output_dir"`

	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	FetchRetries int           `yaml:"fetch_retries"`
	UserAgent    string        `yaml:"user_agent"`

	// Concurrency is how many providers a batch processes at once.
	Concurrency int `yaml:"concurrency"`

	// ProvidersFile optionally overrides entries of the built-in provider
	// table.
	ProvidersFile string `yaml:"providers_file"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir:    "adapters",
		FetchTimeout: 30 * time.Second,
		FetchRetries: 0,
		UserAgent:    "adaptergen/1.0",
		Concurrency:  4,
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.OutputDir == "":
		return errors.New("config: output_dir must not be empty")
	case c.FetchTimeout <= 0:
		return errors.New("config: fetch_timeout must be positive")
	case c.FetchRetries < 0:
		return errors.New("config: fetch_retries must not be negative")
	case c.Concurrency <= 0:
		return errors.New("config: concurrency must be positive")
	case c.LogFormat != "json" && c.LogFormat != "console":
		return fmt.Errorf("config: log_format must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	if v, ok := lookup(EnvPrefix + "FETCH_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %sFETCH_TIMEOUT: %w", EnvPrefix, err)
		}
		c.FetchTimeout = d
	}
	if v, ok := lookup(EnvPrefix + "FETCH_RETRIES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sFETCH_RETRIES: %w", EnvPrefix, err)
		}
		c.FetchRetries = n
	}
	if v, ok := lookup(EnvPrefix + "USER_AGENT"); ok {
		c.UserAgent = v
	}
	if v, ok := lookup(EnvPrefix + "CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sCONCURRENCY: %w", EnvPrefix, err)
		}
		c.Concurrency = n
	}
	if v, ok := lookup(EnvPrefix + "PROVIDERS_FILE"); ok {
		c.ProvidersFile = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	return nil
}
