package production

import (
	"context"
	"sync"
	"time"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/core"
)

// PublishedTransition bundles a committed result with its router metadata.
type PublishedTransition struct {
	Result   activestate.TransitionResult
	Metadata core.Metadata
}

// ChannelPublisher forwards committed transitions to a Go channel.
// Publish never blocks: when the channel is full the transition is dropped.
type ChannelPublisher struct {
	ch chan<- PublishedTransition
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedTransition) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, result activestate.TransitionResult, metadata core.Metadata) error {
	select {
	case p.ch <- PublishedTransition{Result: result, Metadata: metadata}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// ActivationChange records one flip of a link or group.
type ActivationChange struct {
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Classes   []string  `json:"classes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivationPublisher forwards matcher and group flips to a channel.
// By default it drops changes when the channel is full.
type ActivationPublisher struct {
	ch    chan<- ActivationChange
	block bool

	mu    sync.Mutex
	stops []activestate.DeregisterFunc
}

// ActivationOption configures an ActivationPublisher.
type ActivationOption func(*ActivationPublisher)

// WithBlockingSend makes the publisher wait for the reader instead of dropping changes.
// The transition that caused a change waits with it, so the channel must be drained concurrently.
func WithBlockingSend() ActivationOption {
	return func(p *ActivationPublisher) {
		p.block = true
	}
}

// NewActivationPublisher creates an ActivationPublisher writing to ch.
func NewActivationPublisher(ch chan<- ActivationChange, opts ...ActivationOption) *ActivationPublisher {
	p := &ActivationPublisher{ch: ch}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WatchMatcher publishes every flip of m under name.
func (p *ActivationPublisher) WatchMatcher(name string, m *activestate.Matcher) {
	p.track(m.OnChange(func(active bool) {
		p.send(ActivationChange{Name: name, Active: active, Timestamp: time.Now()})
	}))
}

// WatchGroup publishes every flip of g under its class, with the classes applied after the flip.
func (p *ActivationPublisher) WatchGroup(g *activestate.Group) {
	p.track(g.OnChange(func(active bool) {
		p.send(ActivationChange{Name: g.Class(), Active: active, Classes: g.Classes(), Timestamp: time.Now()})
	}))
}

// Close stops watching and closes the channel.
func (p *ActivationPublisher) Close() error {
	p.mu.Lock()
	stops := p.stops
	p.stops = nil
	p.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
	close(p.ch)
	return nil
}

func (p *ActivationPublisher) track(stop activestate.DeregisterFunc) {
	p.mu.Lock()
	p.stops = append(p.stops, stop)
	p.mu.Unlock()
}

func (p *ActivationPublisher) send(c ActivationChange) {
	if p.block {
		p.ch <- c
		return
	}
	select {
	case p.ch <- c:
	default:
	}
}
