// Package production provides the integrations a deployed router needs:
// snapshot persistence, transition and activation publishing, and Graphviz export.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/activestate/internal/core"
)

// JSONPersister stores one JSON snapshot file per router in a directory.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeSnapshot(ctx, filepath.Join(p.dir, snapshot.RouterID+".json"), data)
}

func (p *JSONPersister) Load(ctx context.Context, routerID string) (core.Snapshot, error) {
	data, err := readSnapshot(ctx, filepath.Join(p.dir, routerID+".json"), routerID)
	if err != nil {
		return core.Snapshot{}, err
	}

	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.RouterID = routerID
	return snapshot, nil
}

// YAMLPersister stores one YAML snapshot file per router and validates snapshots on load.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeSnapshot(ctx, filepath.Join(p.dir, snapshot.RouterID+".yaml"), data)
}

func (p *YAMLPersister) Load(ctx context.Context, routerID string) (core.Snapshot, error) {
	data, err := readSnapshot(ctx, filepath.Join(p.dir, routerID+".yaml"), routerID)
	if err != nil {
		return core.Snapshot{}, err
	}

	var snapshot core.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.RouterID = routerID
	if err := snapshot.Validate(); err != nil {
		return core.Snapshot{}, fmt.Errorf("validate %s: %w", routerID, err)
	}
	return snapshot, nil
}

func writeSnapshot(ctx context.Context, fn string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func readSnapshot(ctx context.Context, fn, routerID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("router %q: %w: %w", routerID, core.ErrNotFound, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}
