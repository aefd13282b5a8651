// Package config loads the command's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings for a tape run. Zero values mean unbounded.
type Config struct {
	// Database is the SQLite path. Empty selects an in-memory store.
	Database string `yaml:"database"`
	// StepLimit bounds executed steps per run.
	StepLimit int `yaml:"step_limit"`
	// Timeout bounds wall time per run, as a Go duration string.
	Timeout time.Duration `yaml:"timeout"`
	// RecordRuns writes a run record to the store after each run.
	RecordRuns bool `yaml:"record_runs"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database:   "tape.db",
		RecordRuns: true,
	}
}

// Load reads a configuration file. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration from r on top of Default.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects negative bounds.
func (c *Config) Validate() error {
	if c.StepLimit < 0 {
		return fmt.Errorf("step_limit must not be negative, got %d", c.StepLimit)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
