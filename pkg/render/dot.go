// Package render emits Graphviz DOT for an attack graph, optionally
// highlighting a found attack path. The core hands this package only the
// graph and the ordered node sequence; everything visual lives here.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ritzau/attackgraph/pkg/graph"
	"github.com/ritzau/attackgraph/pkg/model"
	"github.com/ritzau/attackgraph/pkg/search"
)

// WriteDOT writes the whole graph in gray with the path's nodes and edges
// in red, exploit names as edge labels. path may be nil to render the
// plain graph. Parallel steps between a pair collapse to one drawn edge
// carrying the most recently inserted exploit, the same label the search
// reports.
func WriteDOT(w io.Writer, g *graph.AttackGraph, path *model.AttackPath) error {
	onPath := make(map[string]bool)
	pathEdge := make(map[[2]string]bool)
	if path != nil {
		for _, node := range path.Nodes {
			onPath[node] = true
		}
		for _, step := range search.StepsAlong(g, path.Nodes) {
			pathEdge[[2]string{step.Source, step.Target}] = true
		}
	}

	var b strings.Builder
	b.WriteString("digraph attackgraph {\n")
	b.WriteString("\trankdir=LR;\n")
	b.WriteString("\tnode [shape=box, style=filled, fillcolor=lightblue];\n")
	b.WriteString("\tedge [color=gray, fontcolor=blue, fontsize=10];\n")

	for _, node := range g.Nodes() {
		if onPath[node] {
			fmt.Fprintf(&b, "\t%s [fillcolor=red, fontcolor=white];\n", quote(node))
		} else {
			fmt.Fprintf(&b, "\t%s;\n", quote(node))
		}
	}

	drawn := make(map[[2]string]bool)
	for _, step := range g.Steps() {
		pair := [2]string{step.Source, step.Target}
		if drawn[pair] {
			continue
		}
		drawn[pair] = true

		label, _ := g.Label(step.Source, step.Target)
		attrs := fmt.Sprintf("label=%s", quote(label))
		if pathEdge[pair] {
			attrs += ", color=red, penwidth=2.5"
		}
		fmt.Fprintf(&b, "\t%s -> %s [%s];\n", quote(step.Source), quote(step.Target), attrs)
	}

	b.WriteString("}\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}

// WriteDOTFile renders to a file.
func WriteDOTFile(path string, g *graph.AttackGraph, attackPath *model.AttackPath) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteDOT(f, g, attackPath); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// quote renders a DOT-safe quoted identifier.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
