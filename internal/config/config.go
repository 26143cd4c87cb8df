// Package config loads the declarative description of a router demo: the state tree,
// the link groups whose activation is tracked, and a script of navigations to replay.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/primitives"
)

// SnapshotFormat selects the snapshot persister.
type SnapshotFormat string

const (
	SnapshotYAML SnapshotFormat = "yaml"
	SnapshotJSON SnapshotFormat = "json"
)

// Config holds everything the CLI needs to build and drive a router.
type Config struct {
	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// SnapshotDir enables snapshot persistence when set
	SnapshotDir string `yaml:"snapshot_dir,omitempty"`

	// SnapshotFormat is "yaml" (default) or "json"
	SnapshotFormat SnapshotFormat `yaml:"snapshot_format"`

	// Tree declares the router's states
	Tree primitives.TreeConfig `yaml:"tree"`

	// Groups declares the tracked links
	Groups []GroupConfig `yaml:"groups"`

	// Guards reject navigations whose params fail an expression
	Guards []GuardConfig `yaml:"guards,omitempty"`

	// Script is replayed in order by the run command
	Script []primitives.Navigation `yaml:"script"`

	// Interval is the delay between scripted navigations, e.g. "250ms"
	Interval string `yaml:"interval,omitempty"`
}

// GroupConfig declares a group of links. Nested groups report into their parent.
type GroupConfig struct {
	// Class is the label applied while any member is active
	Class string `yaml:"class"`

	Links  []LinkConfig  `yaml:"links,omitempty"`
	Groups []GroupConfig `yaml:"groups,omitempty"`
}

// LinkConfig declares one tracked target.
type LinkConfig struct {
	Name   string             `yaml:"name"`
	Target activestate.Target `yaml:"target"`

	// Base is the state relative targets resolve against
	Base string `yaml:"base,omitempty"`

	// Exact requires the current state to be the target itself
	Exact bool `yaml:"exact,omitempty"`
}

// GuardConfig declares a ParamGuard.
type GuardConfig struct {
	State string `yaml:"state"`
	Expr  string `yaml:"expr"`
}

// IntervalDuration parses Interval. An empty interval is zero.
func (c *Config) IntervalDuration() (time.Duration, error) {
	if c.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Interval)
}

// LoadConfig reads path, applying defaults first and environment overrides last,
// then validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into a validated Config.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ErrNoTree is returned for configs that declare no states.
var ErrNoTree = errors.New("config declares no states")
