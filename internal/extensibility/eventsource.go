package extensibility

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/core"
	"github.com/comalice/activestate/internal/primitives"
)

// Navigator is the part of a router a navigation source drives.
type Navigator interface {
	Go(ctx context.Context, ref string, params map[string]any, opts ...core.GoOption) (activestate.TransitionResult, error)
}

// ChannelEventSource feeds navigations received on a channel into a router.
type ChannelEventSource struct {
	ch     <-chan primitives.Navigation
	logger zerolog.Logger
}

// NewChannelEventSource creates a new ChannelEventSource with the given channel.
func NewChannelEventSource(ch <-chan primitives.Navigation, logger zerolog.Logger) *ChannelEventSource {
	return &ChannelEventSource{ch: ch, logger: logger}
}

// Events returns the receive-only channel for navigations.
func (s *ChannelEventSource) Events() <-chan primitives.Navigation {
	return s.ch
}

// Run navigates for every request until the channel closes or ctx is done.
// Failed navigations are logged and skipped. It returns the number of committed transitions.
func (s *ChannelEventSource) Run(ctx context.Context, nav Navigator) (int, error) {
	committed := 0
	for {
		select {
		case <-ctx.Done():
			return committed, ctx.Err()
		case req, ok := <-s.ch:
			if !ok {
				return committed, nil
			}
			if _, err := nav.Go(ctx, req.State, req.Params); err != nil {
				s.logger.Warn().Err(err).Str("state", req.State).Msg("navigation failed")
				continue
			}
			committed++
		}
	}
}

// ScriptEventSource emits a fixed list of navigations, one per tick.
// A zero interval emits them back to back.
type ScriptEventSource struct {
	ch   chan primitives.Navigation
	stop chan struct{}
}

// NewScriptEventSource starts emitting script. The channel closes after the last navigation or Stop.
func NewScriptEventSource(script []primitives.Navigation, interval time.Duration) *ScriptEventSource {
	s := &ScriptEventSource{
		ch:   make(chan primitives.Navigation),
		stop: make(chan struct{}),
	}
	go s.run(script, interval)
	return s
}

func (s *ScriptEventSource) run(script []primitives.Navigation, interval time.Duration) {
	defer close(s.ch)

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for _, nav := range script {
		if tick != nil {
			select {
			case <-tick:
			case <-s.stop:
				return
			}
		}
		select {
		case s.ch <- nav:
		case <-s.stop:
			return
		}
	}
}

// Events returns the navigation channel.
func (s *ScriptEventSource) Events() <-chan primitives.Navigation {
	return s.ch
}

// Stop ends the script early. Call at most once.
func (s *ScriptEventSource) Stop() {
	close(s.stop)
}
