package graph

import (
	"reflect"
	"testing"
)

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func edgeIDs(edges []Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.ID
	}
	return out
}

func TestMerge(t *testing.T) {
	existing := Graph{
		Nodes: []Node{Node{ID: "A", Label: "A"}.At(5, 5), {ID: "B", Label: "B"}},
		Edges: []Edge{{ID: "t1-A-B", Source: "A", Target: "B", TxID: "t1"}},
	}
	fragment := Graph{
		Nodes: []Node{{ID: "B", Label: "other"}, {ID: "C", Label: "C"}, {ID: "A"}},
		Edges: []Edge{
			{ID: "t1-A-B", Source: "A", Target: "B", TxID: "t1"},
			{ID: "t2-B-C", Source: "B", Target: "C", TxID: "t2"},
		},
	}

	got := Merge(existing, fragment)

	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(ids(got.Nodes), want) {
		t.Errorf("nodes = %v, want %v", ids(got.Nodes), want)
	}
	if want := []string{"t1-A-B", "t2-B-C"}; !reflect.DeepEqual(edgeIDs(got.Edges), want) {
		t.Errorf("edges = %v, want %v", edgeIDs(got.Edges), want)
	}
	if got.Nodes[1].Label != "B" {
		t.Errorf("existing label overwritten: %q", got.Nodes[1].Label)
	}
	if p := got.Nodes[0].Position; p == nil || p.X != 5 {
		t.Errorf("existing position lost: %+v", p)
	}
}

func TestMergeIdempotent(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "A"}, {ID: "B"}},
		Edges: []Edge{{ID: "e1", Source: "A", Target: "B"}},
	}
	f := Graph{
		Nodes: []Node{{ID: "B"}, {ID: "C"}},
		Edges: []Edge{{ID: "e2", Source: "B", Target: "C"}},
	}

	once := Merge(g, f)
	twice := Merge(once, f)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce  = %+v\ntwice = %+v", once, twice)
	}
}

func TestMergeNoDropNoDuplicate(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "A"}, {ID: "B"}}}
	f := Graph{Nodes: []Node{{ID: "C"}, {ID: "C"}, {ID: "A"}}}

	got := Merge(g, f)

	seen := map[string]int{}
	for _, n := range got.Nodes {
		seen[n.ID]++
	}
	for _, id := range []string{"A", "B", "C"} {
		if seen[id] != 1 {
			t.Errorf("node %s appears %d times, want 1", id, seen[id])
		}
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	g := Graph{Nodes: []Node{Node{ID: "A"}.At(0, 0)}}
	f := Graph{Nodes: []Node{Node{ID: "B"}.At(1, 1)}}

	got := Merge(g, f)
	got.Nodes[0].Position.X = 42
	got.Nodes[1].Position.X = 42

	if len(g.Nodes) != 1 {
		t.Errorf("existing grew to %d nodes", len(g.Nodes))
	}
	if g.Nodes[0].Position.X != 0 || f.Nodes[0].Position.X != 1 {
		t.Error("input positions mutated through merge result")
	}
}

func TestMergeIntoEmpty(t *testing.T) {
	f := Graph{Nodes: []Node{{ID: "A"}}, Edges: []Edge{}}
	got := Merge(Empty(), f)
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "A" {
		t.Errorf("nodes = %v, want [A]", ids(got.Nodes))
	}
}

func TestNewNodeIDs(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "A"}, {ID: "B"}}}
	f := Graph{Nodes: []Node{{ID: "A"}, {ID: "C"}, {ID: "D"}, {ID: "C"}}}

	got := NewNodeIDs(g, f)
	if want := []string{"C", "D"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NewNodeIDs = %v, want %v", got, want)
	}

	if got := NewNodeIDs(g, g); len(got) != 0 {
		t.Errorf("NewNodeIDs(g, g) = %v, want empty", got)
	}
}
