package primitives

import "strings"

// TreeBuilder builds a TreeConfig from dot-delimited state names.
// Missing ancestors are created on demand, so declaration order only matters for siblings.
type TreeBuilder struct {
	config *TreeConfig
}

// NewTreeBuilder creates a new TreeBuilder.
func NewTreeBuilder(id string) *TreeBuilder {
	return &TreeBuilder{config: &TreeConfig{ID: id}}
}

// State declares name with optional parameter defaults.
func (b *TreeBuilder) State(name string, params map[string]any) *TreeBuilder {
	s := b.ensure(name)
	if params != nil {
		s.WithParams(params)
	}
	return b
}

// Abstract declares name as a non-navigable grouping state.
func (b *TreeBuilder) Abstract(name string) *TreeBuilder {
	b.ensure(name).WithAbstract(true)
	return b
}

// Initial sets the state entered on start.
func (b *TreeBuilder) Initial(name string) *TreeBuilder {
	b.config.Initial = name
	return b
}

// Build validates and returns the tree.
func (b *TreeBuilder) Build() (TreeConfig, error) {
	if err := b.config.Validate(); err != nil {
		return TreeConfig{}, err
	}
	return *b.config, nil
}

func (b *TreeBuilder) ensure(name string) *StateConfig {
	segments := strings.Split(name, ".")

	var current *StateConfig
	for _, root := range b.config.States {
		if root.ID == segments[0] {
			current = root
			break
		}
	}
	if current == nil {
		current = NewStateConfig(segments[0])
		b.config.States = append(b.config.States, current)
	}

	for _, seg := range segments[1:] {
		child, ok := current.Child(seg)
		if !ok {
			child = current.State(seg)
		}
		current = child
	}
	return current
}
