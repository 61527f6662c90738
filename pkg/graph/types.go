package graph

// =============================================================================
// Position
// =============================================================================

// Position is a 2-D coordinate in layout space.
type Position struct {
	X float64 `json:"x" bson:"x" yaml:"x"`
	Y float64 `json:"y" bson:"y" yaml:"y"`
}

// =============================================================================
// Node - Address Vertex
// =============================================================================

// Node is an address in the transaction graph.
type Node struct {
	ID       string    `json:"id" bson:"id" yaml:"id"`
	Label    string    `json:"label,omitempty" bson:"label,omitempty" yaml:"label,omitempty"`          // Display label (defaults to ID)
	Position *Position `json:"position,omitempty" bson:"position,omitempty" yaml:"position,omitempty"` // nil until laid out
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Placed reports whether the node has a position.
func (n Node) Placed() bool { return n.Position != nil }

// At returns a copy of n positioned at (x, y).
func (n Node) At(x, y float64) Node {
	n.Position = &Position{X: x, Y: y}
	return n
}

// =============================================================================
// Edge - Transaction Flow
// =============================================================================

// Edge is a directed flow from an input address to an output address of a
// single transaction. Parallel edges from different transactions are distinct.
type Edge struct {
	ID     string `json:"id" bson:"id" yaml:"id"`
	Source string `json:"source" bson:"source" yaml:"source"`
	Target string `json:"target" bson:"target" yaml:"target"`
	TxID   string `json:"txid,omitempty" bson:"txid,omitempty" yaml:"txid,omitempty"`
}

// edgeIDPrefix is the number of address bytes used in edge IDs.
const edgeIDPrefix = 6

// EdgeID builds the identifier for a flow between two addresses of a
// transaction. Addresses shorter than the prefix length are used whole.
func EdgeID(txid, source, target string) string {
	return txid + "-" + prefix(source) + "-" + prefix(target)
}

func prefix(s string) string {
	if len(s) <= edgeIDPrefix {
		return s
	}
	return s[:edgeIDPrefix]
}

// =============================================================================
// Graph
// =============================================================================

// Graph is an address graph. Nodes and edges are unique by ID.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" bson:"edges" yaml:"edges"`
}

// Empty returns a graph with no nodes and no edges.
func Empty() Graph {
	return Graph{Nodes: []Node{}, Edges: []Edge{}}
}

// IsEmpty reports whether the graph has no nodes.
func (g Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// Node returns the node with the given ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasNode reports whether a node with the given ID exists.
func (g Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// NodeIndex maps node IDs to their position in Nodes.
func (g Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Clone returns a deep copy of the graph, including node positions.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		out.Nodes[i] = n
	}
	copy(out.Edges, g.Edges)
	return out
}

// Degrees returns the in-degree and out-degree of every node, counting only
// edges whose endpoints are both present.
func (g Graph) Degrees() (in, out map[string]int) {
	in = make(map[string]int, len(g.Nodes))
	out = make(map[string]int, len(g.Nodes))
	idx := g.NodeIndex()
	for _, e := range g.Edges {
		_, okS := idx[e.Source]
		_, okT := idx[e.Target]
		if !okS || !okT {
			continue
		}
		out[e.Source]++
		in[e.Target]++
	}
	return in, out
}
