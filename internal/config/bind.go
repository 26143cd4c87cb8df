package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/comalice/activestate"
)

// Bindings are the live groups and matchers built from GroupConfigs.
type Bindings struct {
	Groups   []*activestate.Group
	Matchers map[string]*activestate.Matcher

	all []*activestate.Group
}

// Bind builds a group tree per GroupConfig and attaches a matcher per link.
// Links without a name are keyed by their target state.
func Bind(r activestate.Router, groups []GroupConfig, logger zerolog.Logger) (*Bindings, error) {
	b := &Bindings{Matchers: make(map[string]*activestate.Matcher)}
	for _, gc := range groups {
		g := activestate.NewGroup(gc.Class)
		b.Groups = append(b.Groups, g)
		if err := b.fill(r, g, gc, logger); err != nil {
			b.Close()
			return nil, err
		}
	}
	return b, nil
}

func (b *Bindings) fill(r activestate.Router, g *activestate.Group, gc GroupConfig, logger zerolog.Logger) error {
	b.all = append(b.all, g)
	for _, lc := range gc.Links {
		name := lc.Name
		if name == "" {
			name = lc.Target.State
		}
		if _, dup := b.Matchers[name]; dup {
			return fmt.Errorf("duplicate link %q", name)
		}
		m, err := activestate.NewMatcher(r, lc.Target,
			activestate.WithBase(lc.Base),
			activestate.WithExact(lc.Exact),
			activestate.WithLogger(logger.With().Str("link", name).Logger()),
		)
		if err != nil {
			return fmt.Errorf("link %q: %w", name, err)
		}
		b.Matchers[name] = m
		if _, err := g.Bind(m); err != nil {
			return fmt.Errorf("link %q: %w", name, err)
		}
	}
	for _, child := range gc.Groups {
		if err := b.fill(r, g.Child(child.Class), child, logger); err != nil {
			return err
		}
	}
	return nil
}

// Walk calls fn for every group, parents before children.
func (b *Bindings) Walk(fn func(*activestate.Group)) {
	for _, g := range b.all {
		fn(g)
	}
}

// Close stops every matcher and root group.
func (b *Bindings) Close() {
	for _, m := range b.Matchers {
		m.Close()
	}
	for _, g := range b.Groups {
		g.Close()
	}
}
