package activestate

import (
	"sync"

	"github.com/rs/zerolog"
)

// TransitionResult is the committed outcome of a successful transition.
// Routers replace it as a whole; it is never updated in place.
type TransitionResult struct {
	State   string   `json:"state" yaml:"state"`
	Params  Params   `json:"params,omitempty" yaml:"params,omitempty"`
	Entered []string `json:"entered,omitempty" yaml:"entered,omitempty"`
	Exited  []string `json:"exited,omitempty" yaml:"exited,omitempty"`
}

// StateRegistry answers whether a state name is registered.
type StateRegistry interface {
	HasState(name string) bool
}

// TransitionService notifies after each committed transition.
// Errored and superseded transitions never reach the callback.
type TransitionService interface {
	OnSuccess(fn func(TransitionResult)) DeregisterFunc
}

// Router is the part of a routing engine a Matcher consumes.
type Router interface {
	StateRegistry
	TransitionService
	Current() TransitionResult
}

// IsActive reports whether target is active in current.
// Relative targets resolve against base. Unknown states are never active.
// With exact set the current state must be the target itself; otherwise any descendant counts.
func IsActive(reg StateRegistry, current TransitionResult, target Target, base string, exact bool) (bool, error) {
	name, err := ResolveTarget(target.State, base)
	if err != nil {
		return false, err
	}
	return isActiveResolved(reg, current, name, target.Params, exact), nil
}

func isActiveResolved(reg StateRegistry, current TransitionResult, name string, params Params, exact bool) bool {
	if name == "" || current.State == "" {
		return false
	}
	if reg != nil && !reg.HasState(name) {
		return false
	}
	if exact {
		if current.State != name {
			return false
		}
	} else if !IsAncestor(name, current.State) {
		return false
	}
	return params.Matches(current.Params)
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithExact requires an exact state match instead of ancestry.
func WithExact(exact bool) MatcherOption {
	return func(m *Matcher) {
		m.exact = exact
	}
}

// WithBase sets the state relative targets resolve against.
func WithBase(base string) MatcherOption {
	return func(m *Matcher) {
		m.base = base
	}
}

// WithLogger sets the logger used for activation changes.
func WithLogger(logger zerolog.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// Matcher tracks whether one target is active and tells observers when that flips.
type Matcher struct {
	router Router
	base   string
	logger zerolog.Logger

	mu       sync.Mutex
	target   Target
	resolved string
	exact    bool
	active   bool
	closed   bool
	settling bool // inside a transition-success callback

	observers  HookRegistry[bool]
	deregister DeregisterFunc
}

// NewMatcher resolves target, evaluates it against the router's current state,
// and subscribes to transition success until Close.
func NewMatcher(router Router, target Target, opts ...MatcherOption) (*Matcher, error) {
	m := &Matcher{
		router: router,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	resolved, err := ResolveTarget(target.State, m.base)
	if err != nil {
		return nil, err
	}
	m.target = Target{State: target.State, Params: target.Params.Clone()}
	m.resolved = resolved
	m.active = isActiveResolved(router, router.Current(), resolved, m.target.Params, m.exact)
	m.deregister = router.OnSuccess(m.onSuccess)
	return m, nil
}

// Active returns the latest activation result.
func (m *Matcher) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Target returns the target as given, along with its resolved absolute name.
func (m *Matcher) Target() (Target, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Target{State: m.target.State, Params: m.target.Params.Clone()}, m.resolved
}

// Exact reports whether the matcher requires an exact state match.
func (m *Matcher) Exact() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exact
}

// SetTarget swaps the target and re-evaluates immediately.
// On a resolution error the previous target stays in place.
func (m *Matcher) SetTarget(target Target) error {
	resolved, err := ResolveTarget(target.State, m.base)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.target = Target{State: target.State, Params: target.Params.Clone()}
	m.resolved = resolved
	m.mu.Unlock()
	m.recompute(m.router.Current())
	return nil
}

// SetExact switches between exact and ancestor matching and re-evaluates immediately.
func (m *Matcher) SetExact(exact bool) {
	m.mu.Lock()
	m.exact = exact
	m.mu.Unlock()
	m.recompute(m.router.Current())
}

// OnChange registers fn to be called with the new result whenever it flips.
func (m *Matcher) OnChange(fn func(active bool)) DeregisterFunc {
	return m.observers.Add(fn)
}

// Close stops the matcher from reacting to transitions. Safe to call repeatedly.
func (m *Matcher) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	dereg := m.deregister
	m.mu.Unlock()

	if dereg != nil {
		dereg()
	}
}

func (m *Matcher) onSuccess(result TransitionResult) {
	m.mu.Lock()
	m.settling = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.settling = false
		m.mu.Unlock()
	}()
	m.recompute(result)
}

func (m *Matcher) inTransition() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settling
}

func (m *Matcher) recompute(current TransitionResult) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	next := isActiveResolved(m.router, current, m.resolved, m.target.Params, m.exact)
	changed := next != m.active
	m.active = next
	resolved := m.resolved
	m.mu.Unlock()

	if !changed {
		return
	}
	m.logger.Debug().
		Str("target", resolved).
		Str("current", current.State).
		Bool("active", next).
		Msg("activation changed")
	m.observers.Fire(next)
}
