package txgraph

import "github.com/matzehuels/walletgraph/pkg/graph"

// Fan-out caps applied by [Normalize].
const (
	DefaultMaxTxPerFetch     = 15
	DefaultMaxNeighborsPerTx = 8
)

// Options control [Normalize]. Zero values select the defaults.
type Options struct {
	MaxTxPerFetch     int
	MaxNeighborsPerTx int
}

func (o Options) withDefaults() Options {
	if o.MaxTxPerFetch <= 0 {
		o.MaxTxPerFetch = DefaultMaxTxPerFetch
	}
	if o.MaxNeighborsPerTx <= 0 {
		o.MaxNeighborsPerTx = DefaultMaxNeighborsPerTx
	}
	return o
}

// Normalize converts a raw page into a graph fragment centered on center.
//
// The center node is always first. Input addresses of a transaction are
// added as nodes even when the transaction has no outputs; output addresses
// are added only while pairing with an input, so a transaction with no
// inputs contributes nothing. Every (input, output) pair yields one edge,
// including pairs where both sides are the same address. Pairs whose edge
// IDs coincide (repeated addresses, shared prefixes) keep the first edge.
// Nodes carry no positions.
func Normalize(center string, raw *RawPage, opts Options) graph.Graph {
	opts = opts.withDefaults()

	nodes := []graph.Node{{ID: center, Label: center}}
	seen := map[string]struct{}{center: {}}
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		nodes = append(nodes, graph.Node{ID: id, Label: id})
	}

	edges := []graph.Edge{}
	edgeSeen := map[string]struct{}{}
	if raw == nil {
		return graph.Graph{Nodes: nodes, Edges: edges}
	}

	txs := raw.Txs
	if len(txs) > opts.MaxTxPerFetch {
		txs = txs[:opts.MaxTxPerFetch]
	}

	for _, tx := range txs {
		inputs := capped(flatten(tx.Inputs), opts.MaxNeighborsPerTx)
		outputs := capped(flatten(tx.Outputs), opts.MaxNeighborsPerTx)

		for _, src := range inputs {
			add(src)
			for _, dst := range outputs {
				add(dst)
				id := graph.EdgeID(tx.Hash, src, dst)
				if _, dup := edgeSeen[id]; dup {
					continue
				}
				edgeSeen[id] = struct{}{}
				edges = append(edges, graph.Edge{
					ID:     id,
					Source: src,
					Target: dst,
					TxID:   tx.Hash,
				})
			}
		}
	}

	return graph.Graph{Nodes: nodes, Edges: edges}
}

// flatten lists every address of every input (or output) in order.
func flatten(ios []RawIO) []string {
	var out []string
	for _, io := range ios {
		for _, a := range io.Addresses {
			if a != "" {
				out = append(out, a)
			}
		}
	}
	return out
}

func capped(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
