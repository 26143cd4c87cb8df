package core

import (
	"testing"

	"github.com/comalice/activestate/internal/primitives"
)

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestComputeLCCA(t *testing.T) {
	tests := []struct {
		source, target, lcca string
	}{
		{"a.b.c", "a.b.d", "a.b"},
		{"a.b", "a.c", "a"},
		{"a", "b", ""},
		{"a.b.c", "a.b.c", "a.b.c"},
		{"", "a.b", ""},
	}
	for _, tt := range tests {
		if got := computeLCCA(tt.source, tt.target); got != tt.lcca {
			t.Errorf("computeLCCA(%q, %q) = %q, want %q", tt.source, tt.target, got, tt.lcca)
		}
	}
}

func TestGetAncestors(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a.b", []string{"a", "a.b"}},
		{"a.b.c", []string{"a", "a.b", "a.b.c"}},
	}
	for _, tt := range tests {
		if got := getAncestors(tt.path); !equalStringSlices(got, tt.want) {
			t.Errorf("getAncestors(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestExitAndEntryStates(t *testing.T) {
	tests := []struct {
		from, to      string
		exited, entry []string
	}{
		{"parent.child1", "parent.child2", []string{"parent.child1"}, []string{"parent.child2"}},
		{"parent.child1", "parent", []string{"parent.child1"}, nil},
		{"", "parent.child1", nil, []string{"parent", "parent.child1"}},
		{"a.b", "c", []string{"a.b", "a"}, []string{"c"}},
	}
	for _, tt := range tests {
		lcca := computeLCCA(tt.from, tt.to)
		if got := getExitStates(tt.from, lcca); !equalStringSlices(got, tt.exited) {
			t.Errorf("exit %q -> %q = %v, want %v", tt.from, tt.to, got, tt.exited)
		}
		if got := getEntryStates(lcca, tt.to); !equalStringSlices(got, tt.entry) {
			t.Errorf("entry %q -> %q = %v, want %v", tt.from, tt.to, got, tt.entry)
		}
	}
}

func TestPrecomputePaths(t *testing.T) {
	parent := primitives.NewStateConfig("parent").WithParams(map[string]any{"tab": "a"})
	parent.State("child").WithParams(map[string]any{"id": nil})

	states := map[string]*primitives.StateConfig{}
	defaults := map[string]map[string]any{}
	precomputePaths(parent, "", nil, states, defaults)

	if _, ok := states["parent.child"]; !ok {
		t.Fatal("parent.child not cached")
	}
	d := defaults["parent.child"]
	if d["tab"] != "a" {
		t.Errorf("inherited default tab = %v, want a", d["tab"])
	}
	if _, ok := d["id"]; !ok {
		t.Error("declared param id missing")
	}
}
