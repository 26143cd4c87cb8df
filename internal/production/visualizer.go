package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/comalice/activestate"
	"github.com/comalice/activestate/internal/primitives"
)

// DefaultVisualizer renders a state tree as Graphviz DOT or JSON.
type DefaultVisualizer struct{}

// ExportDOT generates DOT source for tree. States on the path to current are highlighted:
// the current state in green, its ancestors in orange.
func (v *DefaultVisualizer) ExportDOT(tree primitives.TreeConfig, current string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", tree.ID)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")

	for _, state := range tree.States {
		renderState(&buf, state, "", current, "  ")
	}
	if tree.Initial != "" {
		buf.WriteString("  \"__start\" [shape=point];\n")
		fmt.Fprintf(&buf, "  \"__start\" -> %q;\n", tree.Initial)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the tree to indented JSON.
func (v *DefaultVisualizer) ExportJSON(tree primitives.TreeConfig) ([]byte, error) {
	return json.MarshalIndent(tree, "", "  ")
}

func renderState(buf *bytes.Buffer, state *primitives.StateConfig, prefix, current, indent string) {
	path := state.ID
	if prefix != "" {
		path = prefix + "." + state.ID
	}

	style := ""
	switch {
	case current == path:
		style = " style=filled fillcolor=lightgreen"
	case current != "" && activestate.IsAncestor(path, current):
		style = " style=filled fillcolor=orange"
	}
	if state.Abstract {
		style += " color=gray"
	}

	if len(state.Children) == 0 {
		fmt.Fprintf(buf, "%s%q [label=%q%s];\n", indent, path, nodeLabel(state), style)
		return
	}

	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+path)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, state.ID)
	fmt.Fprintf(buf, "%s  %q [label=%q shape=ellipse%s];\n", indent, path, nodeLabel(state), style)
	for _, child := range state.Children {
		renderState(buf, child, path, current, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func nodeLabel(state *primitives.StateConfig) string {
	if len(state.Params) == 0 {
		return state.ID
	}
	keys := make([]string, 0, len(state.Params))
	for k := range state.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s(%s)", state.ID, strings.Join(keys, ", "))
}
