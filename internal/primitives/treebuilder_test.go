package primitives

import (
	"reflect"
	"testing"
)

func TestTreeBuilder(t *testing.T) {
	tree, err := NewTreeBuilder("app").
		State("parent.child1", nil).
		State("parent.child2", nil).
		State("withParams", map[string]any{"param": nil}).
		Abstract("parent").
		Initial("parent.child1").
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	want := []string{"parent", "parent.child1", "parent.child2", "withParams"}
	if got := tree.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
	parent, err := tree.FindState("parent")
	if err != nil {
		t.Fatal(err)
	}
	if !parent.Abstract {
		t.Error("parent should be abstract")
	}
	wp, _ := tree.FindState("withParams")
	if _, ok := wp.Params["param"]; !ok {
		t.Error("withParams should declare param")
	}
}

func TestTreeBuilderInvalid(t *testing.T) {
	if _, err := NewTreeBuilder("").State("a", nil).Build(); err == nil {
		t.Error("expected error for missing tree ID")
	}
	if _, err := NewTreeBuilder("app").State("a..b", nil).Build(); err == nil {
		t.Error("expected error for empty segment")
	}
}
