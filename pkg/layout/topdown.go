package layout

import (
	"slices"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

// Default gaps for [TopDown].
const (
	DefaultXGap = 220
	DefaultYGap = 140
)

// TopDownOptions configure [TopDown]. Zero gaps select the defaults.
type TopDownOptions struct {
	RootID string  // preferred root; ignored when not in the graph
	XGap   float64 // horizontal distance between nodes of a level
	YGap   float64 // vertical distance between levels
}

// TopDown arranges the graph in rows by breadth-first distance from a root.
//
// The root is RootID when present, otherwise the first node (in node order)
// without incoming edges, otherwise the first node. Edges whose endpoints
// are not both in the graph are ignored.
//
// Nodes unreachable from the root each get their own level below the
// deepest reachable one, in node order. Within a level nodes are sorted by
// ID and centered horizontally around x = 0; level L sits at y = L × YGap.
//
// Every node of the result has a position; previous positions are replaced.
func TopDown(g graph.Graph, opts TopDownOptions) graph.Graph {
	if opts.XGap == 0 {
		opts.XGap = DefaultXGap
	}
	if opts.YGap == 0 {
		opts.YGap = DefaultYGap
	}

	out := g.Clone()
	out.Edges = g.Edges
	if len(out.Nodes) == 0 {
		return out
	}

	levels := assignLevels(g, opts.RootID)

	byLevel := make(map[int][]string)
	for _, n := range g.Nodes {
		l := levels[n.ID]
		byLevel[l] = append(byLevel[l], n.ID)
	}

	idx := out.NodeIndex()
	for lvl, ids := range byLevel {
		slices.Sort(ids)
		width := float64(len(ids)-1) * opts.XGap
		for i, id := range ids {
			n := &out.Nodes[idx[id]]
			*n = n.At(-width/2+float64(i)*opts.XGap, float64(lvl)*opts.YGap)
		}
	}
	return out
}

// assignLevels returns the BFS level of every node.
func assignLevels(g graph.Graph, rootID string) map[string]int {
	idx := g.NodeIndex()
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		_, okS := idx[e.Source]
		_, okT := idx[e.Target]
		if !okS || !okT {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	levels := make(map[string]int, len(g.Nodes))
	root := pickRoot(g, rootID)
	levels[root] = 0
	queue := []string{root}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if _, seen := levels[v]; !seen {
				levels[v] = levels[u] + 1
				queue = append(queue, v)
			}
		}
	}

	maxLevel := 0
	for _, l := range levels {
		maxLevel = max(maxLevel, l)
	}
	next := maxLevel + 1
	for _, n := range g.Nodes {
		if _, ok := levels[n.ID]; !ok {
			levels[n.ID] = next
			next++
		}
	}
	return levels
}

func pickRoot(g graph.Graph, rootID string) string {
	if rootID != "" && g.HasNode(rootID) {
		return rootID
	}
	in, _ := g.Degrees()
	for _, n := range g.Nodes {
		if in[n.ID] == 0 {
			return n.ID
		}
	}
	return g.Nodes[0].ID
}
