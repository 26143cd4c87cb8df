package primitives

import (
	"errors"
	"fmt"
)

// StateConfig declares one node of the state tree.
type StateConfig struct {
	ID       string         `json:"id" yaml:"id"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"` // declared params and their defaults (nil = no default)
	Abstract bool           `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Children []*StateConfig `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewStateConfig creates a new StateConfig with ID.
func NewStateConfig(id string) *StateConfig {
	return &StateConfig{ID: id}
}

// WithParams declares parameters with their default values.
func (s *StateConfig) WithParams(params map[string]any) *StateConfig {
	s.Params = make(map[string]any, len(params))
	for k, v := range params {
		s.Params[k] = v
	}
	return s
}

// WithAbstract marks the state as not directly navigable.
func (s *StateConfig) WithAbstract(abstract bool) *StateConfig {
	s.Abstract = abstract
	return s
}

// WithChildren sets child states.
func (s *StateConfig) WithChildren(children []*StateConfig) *StateConfig {
	s.Children = children
	return s
}

// AddChild adds a child state.
func (s *StateConfig) AddChild(child *StateConfig) *StateConfig {
	s.Children = append(s.Children, child)
	return s
}

// State creates and adds a child state.
// Returns the child for fluent chaining: parent.State("child").State("grandchild").
func (s *StateConfig) State(id string) *StateConfig {
	child := NewStateConfig(id)
	s.AddChild(child)
	return child
}

// Child returns the direct child with the given ID.
func (s *StateConfig) Child(id string) (*StateConfig, bool) {
	for _, c := range s.Children {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Validate performs recursive validation of the StateConfig tree.
func (s *StateConfig) Validate() error {
	if s.ID == "" {
		return errors.New("state ID is required")
	}
	if err := validateSegment(s.ID); err != nil {
		return fmt.Errorf("state %q: %w", s.ID, err)
	}
	for name := range s.Params {
		if name == "" {
			return fmt.Errorf("empty param name in state %s", s.ID)
		}
	}

	seen := make(map[string]struct{}, len(s.Children))
	for i, child := range s.Children {
		if child == nil {
			return fmt.Errorf("child %d of %s is nil", i, s.ID)
		}
		if _, dup := seen[child.ID]; dup {
			return fmt.Errorf("duplicate child %q in %s", child.ID, s.ID)
		}
		seen[child.ID] = struct{}{}
		if err := child.Validate(); err != nil {
			return fmt.Errorf("child %d (%s) of %s failed validation: %w", i, child.ID, s.ID, err)
		}
	}
	return nil
}

// validateSegment accepts alphanumerics, underscores and hyphens.
func validateSegment(seg string) error {
	for _, r := range seg {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return fmt.Errorf("invalid character '%c' in state ID", r)
		}
	}
	return nil
}
