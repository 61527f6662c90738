package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

// Layout engines accepted by [RenderSVG].
const (
	EngineDot   = "dot"
	EngineNeato = "neato"
)

// pointsPerUnit scales explorer coordinates (pixels) to Graphviz points.
const pointsPerUnit = 0.75

// Options configures DOT generation.
type Options struct {
	// Seed is drawn with a highlighted fill. Empty for no highlight.
	Seed string

	// EdgeLabels prints the short txid on every edge.
	EdgeLabels bool

	// FullLabels shows complete addresses instead of shortened ones.
	FullLabels bool
}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [color=\"#555555\", fontsize=9, arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := []string{fmt.Sprintf("id=%q", e.ID)}
		if opts.EdgeLabels && e.TxID != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", shorten(e.TxID, 8)))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, opts Options) []string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !opts.FullLabels {
		label = shorten(label, 12)
	}

	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("tooltip=%q", n.ID)}
	if n.ID == opts.Seed {
		attrs = append(attrs, "fillcolor=\"#ffe08a\"", "penwidth=2")
	}
	if n.Position != nil {
		// Graphviz puts the y axis up; the explorer puts it down.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.Position.X*pointsPerUnit, -n.Position.Y*pointsPerUnit))
	}
	return attrs
}

// shorten keeps the first and last characters of long identifiers:
// "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq" becomes "bc1qar…wf5mdq".
func shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	head := max / 2
	tail := max - head
	return string(r[:head]) + "…" + string(r[len(r)-tail:])
}
