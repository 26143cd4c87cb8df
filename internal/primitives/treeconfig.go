package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// TreeConfig declares a complete state tree.
type TreeConfig struct {
	Version string         `json:"version,omitempty" yaml:"version,omitempty"`
	ID      string         `json:"id" yaml:"id"`
	Initial string         `json:"initial,omitempty" yaml:"initial,omitempty"` // optional state entered on start
	States  []*StateConfig `json:"states" yaml:"states"`
}

// Validate validates the entire tree:
// - Non-empty ID and at least one root state
// - Unique root IDs and recursively valid states
// - Initial, when set, names a concrete state
func (t *TreeConfig) Validate() error {
	if t.ID == "" {
		return errors.New("tree ID is required")
	}
	if len(t.States) == 0 {
		return errors.New("states are required and cannot be empty")
	}

	seen := make(map[string]struct{}, len(t.States))
	for i, state := range t.States {
		if state == nil {
			return fmt.Errorf("root state %d is nil", i)
		}
		if _, dup := seen[state.ID]; dup {
			return fmt.Errorf("duplicate root state %q", state.ID)
		}
		seen[state.ID] = struct{}{}
		if err := state.Validate(); err != nil {
			return fmt.Errorf("state %q validation failed: %w", state.ID, err)
		}
	}

	if t.Initial != "" {
		initial, err := t.FindState(t.Initial)
		if err != nil {
			return fmt.Errorf("initial state %q: %w", t.Initial, err)
		}
		if initial.Abstract {
			return fmt.Errorf("initial state %q is abstract", t.Initial)
		}
	}
	return nil
}

// FindState resolves a state by hierarchical path (e.g. "parent.child.grandchild").
func (t *TreeConfig) FindState(path string) (*StateConfig, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	segments := strings.Split(path, ".")

	var current *StateConfig
	for _, root := range t.States {
		if root.ID == segments[0] {
			current = root
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("state %q not found", segments[0])
	}

	for i := 1; i < len(segments); i++ {
		child, ok := current.Child(segments[i])
		if !ok {
			prefix := strings.Join(segments[:i], ".")
			return nil, fmt.Errorf("child %q not found in %q", segments[i], prefix)
		}
		current = child
	}
	return current, nil
}

// Paths returns every full state name in depth-first declaration order.
func (t *TreeConfig) Paths() []string {
	var paths []string
	var walk func(s *StateConfig, prefix string)
	walk = func(s *StateConfig, prefix string) {
		path := s.ID
		if prefix != "" {
			path = prefix + "." + s.ID
		}
		paths = append(paths, path)
		for _, c := range s.Children {
			walk(c, path)
		}
	}
	for _, root := range t.States {
		walk(root, "")
	}
	return paths
}

// DefaultParams collects parameter defaults along the path, descendants overriding ancestors.
func (t *TreeConfig) DefaultParams(path string) (map[string]any, error) {
	segments := strings.Split(path, ".")
	params := make(map[string]any)
	for i := range segments {
		state, err := t.FindState(strings.Join(segments[:i+1], "."))
		if err != nil {
			return nil, err
		}
		for k, v := range state.Params {
			params[k] = v
		}
	}
	return params, nil
}
