// Package core provides an in-memory routing engine over a declared state tree.
// It commits transitions synchronously on the caller's goroutine and exposes the
// hooks the activestate matchers consume: a state registry, the current result and
// transition-success notifications.
// URL handling and navigation history are out of scope.
package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/primitives"
)

var (
	ErrUnknownState  = errors.New("unknown state")
	ErrAbstractState = errors.New("cannot navigate to abstract state")
	ErrSuperseded    = errors.New("transition superseded")
	ErrRejected      = errors.New("transition rejected")
)

// Transition is a transition in flight, handed to start hooks before it commits.
type Transition struct {
	ID   uint64
	From activestate.TransitionResult
	To   activestate.TransitionResult

	err error
}

// Reject aborts the transition. The first rejection wins.
func (t *Transition) Reject(reason error) {
	if t.err != nil {
		return
	}
	if reason == nil {
		reason = ErrRejected
	}
	t.err = reason
}

// Err returns the rejection, if any.
func (t *Transition) Err() error { return t.err }

// TransitionError reports a transition that never committed.
type TransitionError struct {
	Transition *Transition
	Err        error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %d to %q: %v", e.Transition.ID, e.Transition.To.State, e.Err)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// Router is the engine instance for one state tree.
// State reads are safe from any goroutine. Transitions are expected to be driven from
// one goroutine at a time; success hooks run on it synchronously.
type Router struct {
	config  primitives.TreeConfig
	version string

	mu            sync.RWMutex
	current       activestate.TransitionResult
	seq           uint64
	stateCache    map[string]*primitives.StateConfig
	defaultsCache map[string]map[string]any

	onStart   activestate.HookRegistry[*Transition]
	onSuccess activestate.HookRegistry[activestate.TransitionResult]
	onError   activestate.HookRegistry[*TransitionError]

	logger    zerolog.Logger
	persister Persister
	publisher Publisher
}

// NewRouter validates config and builds its lookup caches.
func NewRouter(config primitives.TreeConfig, opts ...Option) (*Router, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid state tree: %w", err)
	}
	r := &Router{
		config:        config,
		version:       primitives.ComputeVersion(&config),
		stateCache:    make(map[string]*primitives.StateConfig),
		defaultsCache: make(map[string]map[string]any),
		logger:        zerolog.Nop(),
	}
	for _, state := range config.States {
		precomputePaths(state, "", nil, r.stateCache, r.defaultsCache)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start enters the tree's initial state, if one is declared.
func (r *Router) Start(ctx context.Context) error {
	if r.config.Initial == "" {
		return nil
	}
	_, err := r.Go(ctx, r.config.Initial, nil)
	return err
}

// ID returns the tree ID.
func (r *Router) ID() string { return r.config.ID }

// Version returns the tree version used to validate snapshots.
func (r *Router) Version() string { return r.version }

// Config returns the tree configuration.
func (r *Router) Config() primitives.TreeConfig { return r.config }

// HasState reports whether name is a declared state.
func (r *Router) HasState(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.stateCache[name]
	return ok
}

// Current returns a copy of the last committed result.
func (r *Router) Current() activestate.TransitionResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneResult(r.current)
}

// OnStart registers a hook run before each transition commits. Hooks may Reject it,
// or start another transition, which supersedes this one.
func (r *Router) OnStart(fn func(*Transition)) activestate.DeregisterFunc {
	return r.onStart.Add(fn)
}

// OnSuccess registers a hook run after each committed transition.
func (r *Router) OnSuccess(fn func(activestate.TransitionResult)) activestate.DeregisterFunc {
	return r.onSuccess.Add(fn)
}

// OnError registers a hook run for transitions that fail or are superseded.
func (r *Router) OnError(fn func(*TransitionError)) activestate.DeregisterFunc {
	return r.onError.Add(fn)
}

// Go transitions to ref with params. Relative references resolve against the
// current state unless WithRelative says otherwise.
func (r *Router) Go(ctx context.Context, ref string, params map[string]any, opts ...GoOption) (activestate.TransitionResult, error) {
	if err := ctx.Err(); err != nil {
		return activestate.TransitionResult{}, err
	}
	var o goOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	r.seq++
	t := &Transition{ID: r.seq, From: cloneResult(r.current)}
	base := o.relative
	if base == "" {
		base = r.current.State
	}
	r.mu.Unlock()

	name, err := activestate.ResolveTarget(ref, base)
	if err != nil {
		t.To.State = ref
		return activestate.TransitionResult{}, r.fail(t, err)
	}
	t.To = r.buildResult(t.From, name, params, o.inherit)

	state, ok := r.lookup(name)
	if !ok {
		return activestate.TransitionResult{}, r.fail(t, fmt.Errorf("%w: %q", ErrUnknownState, name))
	}
	if state.Abstract {
		return activestate.TransitionResult{}, r.fail(t, fmt.Errorf("%w: %q", ErrAbstractState, name))
	}

	r.onStart.Fire(t)
	if t.err != nil {
		return activestate.TransitionResult{}, r.fail(t, t.err)
	}
	if err := ctx.Err(); err != nil {
		return activestate.TransitionResult{}, r.fail(t, err)
	}

	r.mu.Lock()
	if r.seq != t.ID {
		r.mu.Unlock()
		return activestate.TransitionResult{}, r.fail(t, ErrSuperseded)
	}
	r.current = cloneResult(t.To)
	r.mu.Unlock()

	r.logger.Debug().
		Uint64("transition", t.ID).
		Str("from", t.From.State).
		Str("to", t.To.State).
		Interface("params", t.To.Params).
		Msg("transition committed")

	r.onSuccess.Fire(cloneResult(t.To))
	r.record(ctx, t)
	return cloneResult(t.To), nil
}

// Restore sets the current result from a snapshot taken of the same tree and
// notifies success hooks as if a transition had committed.
func (r *Router) Restore(snapshot Snapshot) error {
	if snapshot.RouterID != r.config.ID {
		return fmt.Errorf("router ID mismatch: have %q, snapshot %q", r.config.ID, snapshot.RouterID)
	}
	if snapshot.TreeVersion != "" && snapshot.TreeVersion != r.version {
		return fmt.Errorf("tree version mismatch: have %q, snapshot %q", r.version, snapshot.TreeVersion)
	}
	if snapshot.Current.State != "" && !r.HasState(snapshot.Current.State) {
		return fmt.Errorf("%w: %q", ErrUnknownState, snapshot.Current.State)
	}

	r.mu.Lock()
	r.seq++
	r.current = cloneResult(snapshot.Current)
	r.mu.Unlock()

	r.onSuccess.Fire(cloneResult(snapshot.Current))
	return nil
}

// Snapshot captures the current result.
func (r *Router) Snapshot() Snapshot {
	return Snapshot{
		RouterID:    r.config.ID,
		TreeVersion: r.version,
		Current:     r.Current(),
		Timestamp:   time.Now(),
	}
}

func (r *Router) lookup(name string) (*primitives.StateConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stateCache[name]
	return s, ok
}

// buildResult merges declared defaults, inherited values and explicit params.
// Params the target does not declare are dropped.
func (r *Router) buildResult(from activestate.TransitionResult, name string, params map[string]any, inherit bool) activestate.TransitionResult {
	r.mu.RLock()
	defaults, known := r.defaultsCache[name]
	r.mu.RUnlock()

	out := activestate.TransitionResult{State: name, Params: activestate.Params{}}
	if known {
		for k, v := range defaults {
			out.Params[k] = v
			if inherit {
				if cur, ok := from.Params[k]; ok {
					out.Params[k] = cur
				}
			}
		}
		for k, v := range params {
			if _, declared := defaults[k]; !declared {
				r.logger.Debug().Str("state", name).Str("param", k).Msg("dropping undeclared param")
				continue
			}
			out.Params[k] = v
		}
	}

	lcca := computeLCCA(from.State, name)
	if from.State == name && !reflect.DeepEqual(map[string]any(from.Params), map[string]any(out.Params)) {
		// Same state with new params is left and entered again.
		lcca = parentPath(name)
	}
	out.Exited = getExitStates(from.State, lcca)
	out.Entered = getEntryStates(lcca, name)
	return out
}

func (r *Router) fail(t *Transition, err error) error {
	terr := &TransitionError{Transition: t, Err: err}
	r.logger.Debug().
		Uint64("transition", t.ID).
		Str("to", t.To.State).
		Err(err).
		Msg("transition failed")
	r.onError.Fire(terr)
	return terr
}

// record persists and publishes a committed transition. Failures are logged, not returned:
// the transition has already committed.
func (r *Router) record(ctx context.Context, t *Transition) {
	if r.persister != nil {
		if err := r.persister.Save(ctx, r.Snapshot()); err != nil {
			r.logger.Warn().Err(err).Str("router", r.config.ID).Msg("snapshot save failed")
		}
	}
	if r.publisher != nil {
		md := Metadata{
			RouterID:   r.config.ID,
			Transition: fmt.Sprintf("%s -> %s", t.From.State, t.To.State),
			Timestamp:  time.Now(),
		}
		if err := r.publisher.Publish(ctx, cloneResult(t.To), md); err != nil {
			r.logger.Warn().Err(err).Str("router", r.config.ID).Msg("publish failed")
		}
	}
}

func parentPath(path string) string {
	ancestors := getAncestors(path)
	if len(ancestors) < 2 {
		return ""
	}
	return ancestors[len(ancestors)-2]
}

func cloneResult(res activestate.TransitionResult) activestate.TransitionResult {
	out := activestate.TransitionResult{State: res.State}
	if res.Params != nil {
		out.Params = res.Params.Clone()
	}
	if res.Entered != nil {
		out.Entered = append([]string(nil), res.Entered...)
	}
	if res.Exited != nil {
		out.Exited = append([]string(nil), res.Exited...)
	}
	return out
}
