package layout

import (
	"math"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

// DefaultGapY is the row spacing of [Vertical].
const DefaultGapY = 150

// VerticalOptions configure [Vertical]. A zero GapY selects DefaultGapY.
type VerticalOptions struct {
	GapY   float64
	StartX float64
	StartY float64
}

// Vertical stacks all nodes in one column in node order. Node i is placed
// at (StartX, StartY + i × GapY), replacing any previous position.
func Vertical(g graph.Graph, opts VerticalOptions) graph.Graph {
	if opts.GapY == 0 {
		opts.GapY = DefaultGapY
	}
	out := g.Clone()
	out.Edges = g.Edges
	for i := range out.Nodes {
		out.Nodes[i] = out.Nodes[i].At(opts.StartX, opts.StartY+float64(i)*opts.GapY)
	}
	return out
}

// DefaultRadius is the ring radius of [Circle].
const DefaultRadius = 300

// CircleOptions configure [Circle]. A zero Radius selects DefaultRadius.
type CircleOptions struct {
	Radius float64
	CX, CY float64
}

// Circle places unplaced nodes on a ring around (CX, CY).
//
// The ring has one slot per node in the graph and node i takes slot i, so
// the slots of already placed nodes stay empty. Nodes that have a position
// keep it.
func Circle(g graph.Graph, opts CircleOptions) graph.Graph {
	if opts.Radius == 0 {
		opts.Radius = DefaultRadius
	}
	out := g.Clone()
	out.Edges = g.Edges

	step := 2 * math.Pi / float64(max(len(out.Nodes), 1))
	for i, n := range out.Nodes {
		if n.Placed() {
			continue
		}
		angle := float64(i) * step
		out.Nodes[i] = n.At(opts.CX+opts.Radius*math.Cos(angle), opts.CY+opts.Radius*math.Sin(angle))
	}
	return out
}
