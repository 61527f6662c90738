package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
// Node and edge order is preserved.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g Graph, w io.Writer) error {
	g = normalizeNil(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes a JSON graph and validates it.
// Duplicate node or edge IDs are rejected; edges pointing at unknown nodes
// are allowed since layout and merge ignore them.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	if err := Validate(g); err != nil {
		return Graph{}, err
	}
	return normalizeNil(g), nil
}

// Validate checks ID uniqueness and that every ID is non-empty.
func Validate(g Graph) error {
	nodes := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: empty id", i)
		}
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("duplicate node %s", n.ID)
		}
		nodes[n.ID] = struct{}{}
	}
	edges := make(map[string]struct{}, len(g.Edges))
	for i, e := range g.Edges {
		if e.ID == "" {
			return fmt.Errorf("edge %d: empty id", i)
		}
		if _, dup := edges[e.ID]; dup {
			return fmt.Errorf("duplicate edge %s", e.ID)
		}
		edges[e.ID] = struct{}{}
	}
	return nil
}

// normalizeNil replaces nil slices so JSON output always carries arrays.
func normalizeNil(g Graph) Graph {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	return g
}
