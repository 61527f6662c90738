package export

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

// DefaultBatchSize bounds the rows sent in one UNWIND query.
const DefaultBatchSize = 500

const mergeNodesQuery = `
UNWIND $rows AS row
MERGE (a:Address {id: row.id})
SET a.label = row.label`

const mergeEdgesQuery = `
UNWIND $rows AS row
MERGE (s:Address {id: row.source})
MERGE (t:Address {id: row.target})
MERGE (s)-[r:SENT_TO {id: row.id}]->(t)
SET r.txid = row.txid`

// Neo4jOptions configures a Neo4jWriter.
type Neo4jOptions struct {
	URI      string // e.g. neo4j://localhost:7687
	Username string
	Password string
	Database string // "" for the server default
	Logger   *log.Logger
}

// runFunc executes one write query.
type runFunc func(ctx context.Context, query string, params map[string]any) error

// Neo4jWriter merges graphs into Neo4j.
type Neo4jWriter struct {
	driver    neo4j.DriverWithContext
	run       runFunc
	batchSize int
	logger    *log.Logger
}

// NewNeo4jWriter connects to Neo4j and verifies connectivity.
func NewNeo4jWriter(ctx context.Context, opts Neo4jOptions) (*Neo4jWriter, error) {
	driver, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.Username, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("neo4j connect %s: %w", opts.URI, err)
	}

	var qopts []neo4j.ExecuteQueryConfigurationOption
	if opts.Database != "" {
		qopts = append(qopts, neo4j.ExecuteQueryWithDatabase(opts.Database))
	}
	run := func(ctx context.Context, query string, params map[string]any) error {
		_, err := neo4j.ExecuteQuery(ctx, driver, query, params, neo4j.EagerResultTransformer, qopts...)
		return err
	}

	w := newNeo4jWriter(run, opts.Logger)
	w.driver = driver
	return w, nil
}

func newNeo4jWriter(run runFunc, logger *log.Logger) *Neo4jWriter {
	if logger == nil {
		logger = log.Default()
	}
	return &Neo4jWriter{run: run, batchSize: DefaultBatchSize, logger: logger}
}

// Write merges every node, then every edge, in batches.
func (w *Neo4jWriter) Write(ctx context.Context, g graph.Graph) (Stats, error) {
	var st Stats

	nodes := nodeRows(g)
	for batch := range chunks(nodes, w.batchSize) {
		if err := w.run(ctx, mergeNodesQuery, map[string]any{"rows": batch}); err != nil {
			return st, fmt.Errorf("merge addresses: %w", err)
		}
		st.Nodes += len(batch)
	}

	edges := edgeRows(g)
	for batch := range chunks(edges, w.batchSize) {
		if err := w.run(ctx, mergeEdgesQuery, map[string]any{"rows": batch}); err != nil {
			return st, fmt.Errorf("merge edges: %w", err)
		}
		st.Edges += len(batch)
	}

	w.logger.Info("exported to neo4j", "nodes", st.Nodes, "edges", st.Edges)
	return st, nil
}

// Close closes the driver.
func (w *Neo4jWriter) Close(ctx context.Context) error {
	if w.driver == nil {
		return nil
	}
	return w.driver.Close(ctx)
}

func nodeRows(g graph.Graph) []any {
	rows := make([]any, len(g.Nodes))
	for i, n := range g.Nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		rows[i] = map[string]any{"id": n.ID, "label": label}
	}
	return rows
}

func edgeRows(g graph.Graph) []any {
	rows := make([]any, len(g.Edges))
	for i, e := range g.Edges {
		rows[i] = map[string]any{"id": e.ID, "source": e.Source, "target": e.Target, "txid": e.TxID}
	}
	return rows
}

// chunks yields consecutive slices of at most size elements.
func chunks(rows []any, size int) func(yield func([]any) bool) {
	return func(yield func([]any) bool) {
		for start := 0; start < len(rows); start += size {
			end := min(start+size, len(rows))
			if !yield(rows[start:end]) {
				return
			}
		}
	}
}

var _ Target = (*Neo4jWriter)(nil)
