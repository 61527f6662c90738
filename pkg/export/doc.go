// Package export writes transaction graphs out of walletgraph.
//
// # File Formats
//
// [Encode] and [Decode] move a [graph.Graph] in and out of JSON or YAML.
// [FormatFromPath] picks the format from a file extension.
//
// # Graph Databases and Streams
//
// [Neo4jWriter] merges the graph into Neo4j: one :Address node per address
// and one :SENT_TO relationship per edge, keyed by id so repeated exports are
// idempotent. [KafkaPublisher] publishes vertices and edges as JSON messages
// on two topics, keyed by address and edge id.
//
// Both implement [Target]. Exports are one-shot: nothing is read back.
package export

import (
	"context"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

// Stats summarizes one export.
type Stats struct {
	Nodes int // addresses written or published
	Edges int // edges written or published
}

// Target receives a whole graph.
type Target interface {
	Write(ctx context.Context, g graph.Graph) (Stats, error)
	Close(ctx context.Context) error
}
