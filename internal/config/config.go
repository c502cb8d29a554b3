// Package config loads the YAML configuration for the membtree server
// (cmd/membtreed), following the same load/default/save shape as the
// rest of the ambient stack.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	Bind    string  `yaml:"bind"`
	Port    int     `yaml:"port"`
	Tree    Tree    `yaml:"tree"`
	Logging Logging `yaml:"logging"`
}

// Tree configures the fan-out and expiry sweep of the in-memory tree
// the server holds.
type Tree struct {
	FanOut             int `yaml:"fan_out"`
	ExpirySweepSeconds int `yaml:"expiry_sweep_seconds"`
	// MaxCapacity bounds the number of live items the server retains,
	// evicting the smallest keys first once exceeded. Zero means
	// unlimited.
	MaxCapacity int `yaml:"max_capacity"`
}

// Logging configures the zerolog writer.
type Logging struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		Bind: "127.0.0.1",
		Port: 8080,
		Tree: Tree{
			FanOut:             32,
			ExpirySweepSeconds: 30,
			MaxCapacity:        0,
		},
		Logging: Logging{
			Level:  "info",
			Pretty: false,
		},
	}
}

// Load reads and parses the YAML configuration at path, falling back
// to DefaultConfig for any zero-valued field left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as
// needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Exists reports whether a configuration file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
