// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/activestate/internal/core"
	"github.com/comalice/activestate/internal/primitives"
)

// GenFlatTree creates n sibling root states s0..s(n-1).
func GenFlatTree(n int) primitives.TreeConfig {
	if n < 1 {
		n = 1
	}
	b := primitives.NewTreeBuilder(fmt.Sprintf("flat_%d", n)).Initial("s0")
	for i := 0; i < n; i++ {
		b.State(fmt.Sprintf("s%d", i), nil)
	}
	return mustBuild(b)
}

// GenDeepTree creates a chain c0.c1...c(depth-1) with two leaves at the bottom.
// It returns the tree and the names of both leaves.
func GenDeepTree(depth int) (primitives.TreeConfig, [2]string) {
	if depth < 1 {
		depth = 1
	}
	segs := make([]string, depth)
	for i := range segs {
		segs[i] = fmt.Sprintf("c%d", i)
	}
	prefix := strings.Join(segs, ".")
	leaves := [2]string{prefix + ".leaf1", prefix + ".leaf2"}

	b := primitives.NewTreeBuilder(fmt.Sprintf("deep_%d", depth)).Initial(leaves[0])
	b.State(leaves[0], map[string]any{"n": 0})
	b.State(leaves[1], map[string]any{"n": 0})
	return mustBuild(b), leaves
}

// NewRouter builds and starts a router over tree.
func NewRouter(tree primitives.TreeConfig) *core.Router {
	r, err := core.NewRouter(tree)
	if err != nil {
		panic(err)
	}
	if err := r.Start(context.Background()); err != nil {
		panic(err)
	}
	return r
}

// GenSnapshotYAML generates YAML bytes for a snapshot of a deep tree.
func GenSnapshotYAML(depth int) []byte {
	tree, leaves := GenDeepTree(depth)
	r := NewRouter(tree)
	if _, err := r.Go(context.Background(), leaves[1], map[string]any{"n": 1}); err != nil {
		panic(err)
	}
	snap := r.Snapshot()
	snap.Timestamp = time.Unix(0, 0).UTC()
	data, err := yaml.Marshal(snap)
	if err != nil {
		panic(err)
	}
	return data
}

func mustBuild(b *primitives.TreeBuilder) primitives.TreeConfig {
	tree, err := b.Build()
	if err != nil {
		panic(err)
	}
	return tree
}
