// Package graph provides the address/transaction graph model for walletgraph.
//
// A [Graph] is a node-link structure: nodes are addresses, edges are
// transaction flows from an input address to an output address. Both are
// unique by ID and keep insertion order, which is also the order used for
// layout and rendering.
//
// # Core Types
//
//   - [Graph]: Node-link container
//   - [Node]: Address vertex with an optional [Position]
//   - [Edge]: Directed flow, identified by "{txid}-{src[:6]}-{dst[:6]}"
//
// A node without a position still needs layout. Layout strategies live in
// pkg/layout and never mutate their input.
//
// # Merging
//
// [Merge] folds a freshly fetched fragment into the running graph:
//
//	g = graph.Merge(g, fragment)
//
// Existing entries win on ID collisions, existing order is preserved and new
// entries are appended in fragment order. Merging the same fragment twice is
// a no-op. [NewNodeIDs] reports which fragment nodes are new, so callers can
// place only those.
//
// # Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "bc1q...", "label": "bc1q...", "position": {"x": 0, "y": 0}}],
//	  "edges": [{"id": "ab12-bc1q..-1Boat.", "source": "bc1q...", "target": "1Boat...", "txid": "ab12"}]
//	}
//
// The same struct tags are used for BSON and YAML so the type can be stored in
// MongoDB or exported as YAML without a second model.
//
// # Concurrency
//
// Graph values are treated as immutable once shared. All functions in this
// package return new slices and are safe for concurrent use on distinct or
// read-only inputs.
package graph
