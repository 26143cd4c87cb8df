package production

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/comalice/activestate/internal/primitives"
)

func visualTree(t *testing.T) primitives.TreeConfig {
	t.Helper()
	tree, err := primitives.NewTreeBuilder("app").
		State("home", nil).
		State("users.list", map[string]any{"page": 1}).
		State("users.detail", map[string]any{"id": nil}).
		Abstract("users").
		Initial("home").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestDefaultVisualizer_ExportDOT(t *testing.T) {
	v := &DefaultVisualizer{}
	dot := v.ExportDOT(visualTree(t), "users.detail")

	for _, want := range []string{
		`digraph "app" {`,
		`subgraph "cluster_users" {`,
		`"users.detail" [label="detail(id)" style=filled fillcolor=lightgreen];`,
		`"users" [label="users" shape=ellipse style=filled fillcolor=orange color=gray];`,
		`"users.list" [label="list(page)"];`,
		`"home" [label="home"];`,
		`"__start" -> "home";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
}

func TestDefaultVisualizer_ExportDOT_NothingActive(t *testing.T) {
	v := &DefaultVisualizer{}
	dot := v.ExportDOT(visualTree(t), "")
	if strings.Contains(dot, "fillcolor") {
		t.Errorf("no state should be highlighted:\n%s", dot)
	}
}

func TestDefaultVisualizer_ExportJSON(t *testing.T) {
	v := &DefaultVisualizer{}
	data, err := v.ExportJSON(visualTree(t))
	if err != nil {
		t.Fatal(err)
	}
	var back primitives.TreeConfig
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != "app" || len(back.States) != 2 {
		t.Errorf("unexpected tree: %+v", back)
	}
}
