package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comalice/activestate"
)

// Validate checks the config. The tree ID defaults to DefaultTreeID when omitted.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	switch c.SnapshotFormat {
	case SnapshotYAML, SnapshotJSON:
	default:
		return fmt.Errorf("invalid snapshot_format: %q (must be 'yaml' or 'json')", c.SnapshotFormat)
	}

	if len(c.Tree.States) == 0 {
		return ErrNoTree
	}
	if c.Tree.ID == "" {
		c.Tree.ID = DefaultTreeID
	}
	if err := c.Tree.Validate(); err != nil {
		return fmt.Errorf("tree: %w", err)
	}

	var errs []error
	for i, g := range c.Groups {
		errs = append(errs, validateGroup(fmt.Sprintf("groups[%d]", i), g))
	}
	for i, g := range c.Guards {
		if g.State == "" || g.Expr == "" {
			errs = append(errs, fmt.Errorf("guards[%d]: state and expr are required", i))
		}
	}
	for i, nav := range c.Script {
		if nav.State == "" {
			errs = append(errs, fmt.Errorf("script[%d]: state is required", i))
		}
	}
	if _, err := c.IntervalDuration(); err != nil {
		errs = append(errs, fmt.Errorf("invalid interval: %w", err))
	}
	return errors.Join(errs...)
}

func validateGroup(path string, g GroupConfig) error {
	var errs []error
	for i, l := range g.Links {
		if l.Target.State == "" {
			errs = append(errs, fmt.Errorf("%s.links[%d]: target state is required", path, i))
			continue
		}
		if _, err := activestate.ResolveTarget(l.Target.State, l.Base); err != nil {
			errs = append(errs, fmt.Errorf("%s.links[%d]: %w", path, i, err))
		}
	}
	for i, child := range g.Groups {
		errs = append(errs, validateGroup(fmt.Sprintf("%s.groups[%d]", path, i), child))
	}
	return errors.Join(errs...)
}
