// Package testutil builds routers for tests the way application code declares them:
// a flat list of dot-named states, then navigation by name.
package testutil

import (
	"context"
	"testing"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/core"
	"github.com/comalice/activestate/internal/primitives"
)

// StateDecl declares one state by its full dot-delimited name.
type StateDecl struct {
	Name     string
	Params   map[string]any
	Abstract bool
}

// TestRouter wraps a core.Router and fails the test on navigation errors.
type TestRouter struct {
	*core.Router
	t testing.TB
}

// MakeTestRouter builds a router over states. The tree must be valid.
func MakeTestRouter(t testing.TB, states []StateDecl, opts ...core.Option) *TestRouter {
	t.Helper()
	b := primitives.NewTreeBuilder(t.Name())
	for _, s := range states {
		b.State(s.Name, s.Params)
		if s.Abstract {
			b.Abstract(s.Name)
		}
	}
	tree, err := b.Build()
	if err != nil {
		t.Fatalf("build state tree: %v", err)
	}
	r, err := core.NewRouter(tree, opts...)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return &TestRouter{Router: r, t: t}
}

// Navigate transitions to state and fails the test if the transition does not commit.
func (r *TestRouter) Navigate(state string, params map[string]any) activestate.TransitionResult {
	r.t.Helper()
	res, err := r.Go(context.Background(), state, params)
	if err != nil {
		r.t.Fatalf("navigate to %q: %v", state, err)
	}
	return res
}
