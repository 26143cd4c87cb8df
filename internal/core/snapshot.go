package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/comalice/activestate"
)

// ErrNotFound is returned by persisters that have no snapshot for a router.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the serializable record of a router's committed state.
type Snapshot struct {
	RouterID    string                       `json:"routerID" yaml:"routerID"`
	TreeVersion string                       `json:"treeVersion,omitempty" yaml:"treeVersion,omitempty"`
	Current     activestate.TransitionResult `json:"current" yaml:"current"`
	Timestamp   time.Time                    `json:"timestamp" yaml:"timestamp"`
}

// Metadata describes a committed transition for publishers.
type Metadata struct {
	RouterID   string    `json:"routerID" yaml:"routerID"`
	Transition string    `json:"transition" yaml:"transition"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// Persister stores router snapshots.
type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, routerID string) (Snapshot, error)
}

// Publisher forwards committed transitions to an external sink.
type Publisher interface {
	Publish(ctx context.Context, result activestate.TransitionResult, metadata Metadata) error
	Close() error
}

// Validate checks that a loaded snapshot names a router and an absolute state.
func (s Snapshot) Validate() error {
	if s.RouterID == "" {
		return errors.New("snapshot: router ID is required")
	}
	if s.Current.State == "" {
		return nil
	}
	if activestate.IsRelative(s.Current.State) {
		return fmt.Errorf("snapshot: current state %q is not absolute", s.Current.State)
	}
	for _, seg := range strings.Split(s.Current.State, ".") {
		if seg == "" {
			return fmt.Errorf("snapshot: current state %q has an empty segment", s.Current.State)
		}
	}
	return nil
}
