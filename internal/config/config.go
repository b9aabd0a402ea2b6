// Package config loads digitsum configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/panyam/mapreduce"
)

// Config holds all command configuration.
type Config struct {
	Executor ExecutorConfig
	Logging  LogConfig
}

// ExecutorConfig holds map-reduce executor settings. Workers of 0 means one
// worker per input segment.
type ExecutorConfig struct {
	Workers int              `envconfig:"MAPREDUCE_WORKERS" default:"0"`
	Timeout time.Duration    `envconfig:"MAPREDUCE_TIMEOUT" default:"0s"`
	Policy  mapreduce.Policy `envconfig:"MAPREDUCE_POLICY" default:"fail-fast"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Executor.Workers < 0 {
		return nil, fmt.Errorf("failed to load config: MAPREDUCE_WORKERS must not be negative, got %d", cfg.Executor.Workers)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Executor: ExecutorConfig{
			Workers: 0,
			Timeout: 0,
			Policy:  mapreduce.FailFast,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
