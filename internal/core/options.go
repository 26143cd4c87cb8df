package core

import "github.com/rs/zerolog"

// Option applies configuration to Router via functional options pattern.
type Option func(*Router)

// WithLogger configures the Router's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithPersister configures the Router with a Persister that saves a snapshot after each commit.
func WithPersister(p Persister) Option {
	return func(r *Router) {
		r.persister = p
	}
}

// WithPublisher configures the Router with a Publisher notified after each commit.
func WithPublisher(pb Publisher) Option {
	return func(r *Router) {
		r.publisher = pb
	}
}

type goOptions struct {
	relative string
	inherit  bool
}

// GoOption tunes a single Go call.
type GoOption func(*goOptions)

// WithRelative resolves relative references against base instead of the current state.
func WithRelative(base string) GoOption {
	return func(o *goOptions) {
		o.relative = base
	}
}

// WithInherit carries current values of params the target declares when the call omits them.
func WithInherit() GoOption {
	return func(o *goOptions) {
		o.inherit = true
	}
}
