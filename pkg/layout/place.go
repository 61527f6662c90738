package layout

import (
	"math"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

// Defaults for incremental placement.
const (
	DefaultAroundRadius = 180
	DefaultBelowYGap    = 140
	DefaultBelowXGap    = 200
)

// PlaceAround appends the ids of newIDs that are not yet in the graph as
// new nodes on a ring of the given radius around centerID. A radius of 0
// selects DefaultAroundRadius. An unplaced center counts as (0, 0).
//
// The graph is returned unchanged when the center is missing or every id is
// already present.
func PlaceAround(g graph.Graph, centerID string, newIDs []string, radius float64) graph.Graph {
	center, ok := g.Node(centerID)
	if !ok {
		return g
	}
	if radius == 0 {
		radius = DefaultAroundRadius
	}

	present := g.NodeIndex()
	var fresh []string
	for _, id := range newIDs {
		if _, ok := present[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return g
	}

	cx, cy := origin(center)
	out := g.Clone()
	out.Edges = g.Edges
	step := 2 * math.Pi / float64(len(fresh))
	for k, id := range fresh {
		angle := float64(k) * step
		n := graph.Node{ID: id, Label: id}
		out.Nodes = append(out.Nodes, n.At(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)))
	}
	return out
}

// BelowOptions configure [PlaceBelow]. Zero gaps select the defaults.
type BelowOptions struct {
	YGap float64
	XGap float64
}

// PlaceBelow positions the ids of newIDs that exist in the graph in a row
// centered one YGap below centerID, in newIDs order. Ids not in the graph
// are ignored and every other node keeps its position. An unplaced center
// counts as (0, 0).
//
// The graph is returned unchanged when the center is missing or none of the
// ids exist.
func PlaceBelow(g graph.Graph, centerID string, newIDs []string, opts BelowOptions) graph.Graph {
	center, ok := g.Node(centerID)
	if !ok {
		return g
	}
	if opts.YGap == 0 {
		opts.YGap = DefaultBelowYGap
	}
	if opts.XGap == 0 {
		opts.XGap = DefaultBelowXGap
	}

	idx := g.NodeIndex()
	var targets []int
	for _, id := range newIDs {
		if i, ok := idx[id]; ok {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return g
	}

	cx, cy := origin(center)
	width := float64(len(targets)-1) * opts.XGap
	out := g.Clone()
	out.Edges = g.Edges
	for k, i := range targets {
		out.Nodes[i] = out.Nodes[i].At(cx-width/2+float64(k)*opts.XGap, cy+opts.YGap)
	}
	return out
}

func origin(n graph.Node) (x, y float64) {
	if n.Position == nil {
		return 0, 0
	}
	return n.Position.X, n.Position.Y
}
