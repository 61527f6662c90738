package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/walletgraph/pkg/graph"
)

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: id, Label: id}
	}
	return out
}

func edge(src, dst string) graph.Edge {
	return graph.Edge{ID: graph.EdgeID("tx", src, dst), Source: src, Target: dst, TxID: "tx"}
}

func pos(t *testing.T, g graph.Graph, id string) graph.Position {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	if n.Position == nil {
		t.Fatalf("node %s has no position", id)
	}
	return *n.Position
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTopDown_Chain(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("C", "B", "A"),
		Edges: []graph.Edge{edge("A", "B"), edge("B", "C")},
	}

	out := TopDown(g, TopDownOptions{})

	for id, want := range map[string]graph.Position{
		"A": {X: 0, Y: 0},
		"B": {X: 0, Y: 140},
		"C": {X: 0, Y: 280},
	} {
		if got := pos(t, out, id); got != want {
			t.Errorf("%s at %+v, want %+v", id, got, want)
		}
	}
}

func TestTopDown_LevelCenteredAndSorted(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("root", "z", "a", "m"),
		Edges: []graph.Edge{edge("root", "z"), edge("root", "a"), edge("root", "m")},
	}

	out := TopDown(g, TopDownOptions{XGap: 100})

	want := map[string]float64{"a": -100, "m": 0, "z": 100}
	for id, x := range want {
		p := pos(t, out, id)
		if p.X != x || p.Y != 140 {
			t.Errorf("%s at %+v, want (%v, 140)", id, p, x)
		}
	}
}

func TestTopDown_ExplicitRoot(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("A", "B"),
		Edges: []graph.Edge{edge("A", "B")},
	}
	out := TopDown(g, TopDownOptions{RootID: "B"})

	if p := pos(t, out, "B"); p.Y != 0 {
		t.Errorf("root B at y=%v, want 0", p.Y)
	}
	if p := pos(t, out, "A"); p.Y != 140 {
		t.Errorf("unreachable A at y=%v, want 140", p.Y)
	}
}

func TestTopDown_UnreachableNodesGetOwnLevels(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("A", "B", "X", "Y"),
		Edges: []graph.Edge{edge("A", "B"), edge("X", "Y")},
	}
	out := TopDown(g, TopDownOptions{})

	levels := map[string]float64{"A": 0, "B": 140, "X": 280, "Y": 420}
	for id, y := range levels {
		if p := pos(t, out, id); p.Y != y || p.X != 0 {
			t.Errorf("%s at %+v, want (0, %v)", id, p, y)
		}
	}
}

func TestTopDown_CycleFallsBackToFirstNode(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("B", "A"),
		Edges: []graph.Edge{edge("A", "B"), edge("B", "A")},
	}
	out := TopDown(g, TopDownOptions{})

	if p := pos(t, out, "B"); p.Y != 0 {
		t.Errorf("B at y=%v, want 0", p.Y)
	}
	if p := pos(t, out, "A"); p.Y != 140 {
		t.Errorf("A at y=%v, want 140", p.Y)
	}
}

func TestTopDown_IgnoresDanglingEdges(t *testing.T) {
	g := graph.Graph{
		Nodes: nodes("B", "A"),
		Edges: []graph.Edge{edge("ghost", "B"), edge("A", "B")},
	}
	out := TopDown(g, TopDownOptions{})

	if p := pos(t, out, "A"); p.Y != 0 {
		t.Errorf("A at y=%v, want 0 (ghost edge must not count)", p.Y)
	}
	if len(out.Edges) != 2 {
		t.Errorf("edges = %d, want 2 (unchanged)", len(out.Edges))
	}
}

func TestTopDown_DoesNotModifyInput(t *testing.T) {
	g := graph.Graph{Nodes: nodes("A", "B"), Edges: []graph.Edge{edge("A", "B")}}
	_ = TopDown(g, TopDownOptions{})
	for _, n := range g.Nodes {
		if n.Placed() {
			t.Errorf("input node %s was positioned", n.ID)
		}
	}
}

func TestTopDown_Empty(t *testing.T) {
	out := TopDown(graph.Empty(), TopDownOptions{})
	if !out.IsEmpty() {
		t.Error("expected empty graph")
	}
}

func TestVertical(t *testing.T) {
	g := graph.Graph{Nodes: nodes("A", "B", "C")}
	g.Nodes[1] = g.Nodes[1].At(999, 999)

	out := Vertical(g, VerticalOptions{StartX: 10, StartY: 5})

	for i, id := range []string{"A", "B", "C"} {
		want := graph.Position{X: 10, Y: 5 + float64(i)*150}
		if got := pos(t, out, id); got != want {
			t.Errorf("%s at %+v, want %+v", id, got, want)
		}
	}
	if g.Nodes[1].Position.X != 999 {
		t.Error("input modified")
	}
}

func TestCircle_FillsOnlyUnplaced(t *testing.T) {
	g := graph.Graph{Nodes: nodes("A", "B", "C", "D")}
	g.Nodes[1] = g.Nodes[1].At(7, 7)

	out := Circle(g, CircleOptions{})

	if p := pos(t, out, "A"); !near(p.X, 300) || !near(p.Y, 0) {
		t.Errorf("A at %+v, want (300, 0)", p)
	}
	if p := pos(t, out, "B"); p.X != 7 || p.Y != 7 {
		t.Errorf("placed B moved to %+v", p)
	}
	if p := pos(t, out, "C"); !near(p.X, -300) || !near(p.Y, 0) {
		t.Errorf("C at %+v, want slot 2 of 4 (-300, 0)", p)
	}
	if p := pos(t, out, "D"); !near(p.X, 0) || !near(p.Y, -300) {
		t.Errorf("D at %+v, want slot 3 of 4 (0, -300)", p)
	}
}

func TestCircle_CenterAndRadius(t *testing.T) {
	g := graph.Graph{Nodes: nodes("A")}
	out := Circle(g, CircleOptions{Radius: 320, CX: 10, CY: 20})
	if p := pos(t, out, "A"); !near(p.X, 330) || !near(p.Y, 20) {
		t.Errorf("A at %+v, want (330, 20)", p)
	}
}

func TestPlaceAround(t *testing.T) {
	g := graph.Graph{Nodes: nodes("center", "old")}
	g.Nodes[0] = g.Nodes[0].At(100, 100)

	out := PlaceAround(g, "center", []string{"old", "n1", "n2"}, 0)

	if len(out.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(out.Nodes))
	}
	if out.Nodes[2].ID != "n1" || out.Nodes[3].ID != "n2" {
		t.Errorf("appended order = %s, %s", out.Nodes[2].ID, out.Nodes[3].ID)
	}
	if p := pos(t, out, "n1"); !near(p.X, 280) || !near(p.Y, 100) {
		t.Errorf("n1 at %+v, want (280, 100)", p)
	}
	if p := pos(t, out, "n2"); !near(p.X, -80) || !near(p.Y, 100) {
		t.Errorf("n2 at %+v, want (-80, 100)", p)
	}
	if n, _ := out.Node("old"); n.Placed() {
		t.Error("existing node should not be repositioned")
	}
	if len(g.Nodes) != 2 {
		t.Error("input modified")
	}
}

func TestPlaceAround_Unchanged(t *testing.T) {
	g := graph.Graph{Nodes: nodes("a")}

	if out := PlaceAround(g, "missing", []string{"x"}, 0); len(out.Nodes) != 1 {
		t.Error("missing center should leave graph unchanged")
	}
	if out := PlaceAround(g, "a", []string{"a"}, 0); len(out.Nodes) != 1 {
		t.Error("no fresh ids should leave graph unchanged")
	}
}

func TestPlaceBelow(t *testing.T) {
	g := graph.Graph{Nodes: nodes("center", "n1", "n2", "keep")}
	g.Nodes[0] = g.Nodes[0].At(50, 10)
	g.Nodes[3] = g.Nodes[3].At(-5, -5)

	out := PlaceBelow(g, "center", []string{"n2", "ghost", "n1"}, BelowOptions{})

	if p := pos(t, out, "n2"); p.X != -50 || p.Y != 150 {
		t.Errorf("n2 at %+v, want (-50, 150)", p)
	}
	if p := pos(t, out, "n1"); p.X != 150 || p.Y != 150 {
		t.Errorf("n1 at %+v, want (150, 150)", p)
	}
	if p := pos(t, out, "keep"); p.X != -5 || p.Y != -5 {
		t.Errorf("keep moved to %+v", p)
	}
	if p := pos(t, out, "center"); p.X != 50 || p.Y != 10 {
		t.Errorf("center moved to %+v", p)
	}
	if out.HasNode("ghost") {
		t.Error("PlaceBelow must not add nodes")
	}
}

func TestPlaceBelow_UnplacedCenter(t *testing.T) {
	g := graph.Graph{Nodes: nodes("c", "n")}
	out := PlaceBelow(g, "c", []string{"n"}, BelowOptions{})
	if p := pos(t, out, "n"); p.X != 0 || p.Y != 140 {
		t.Errorf("n at %+v, want (0, 140)", p)
	}
}

func TestPlaceBelow_MissingCenter(t *testing.T) {
	g := graph.Graph{Nodes: nodes("n")}
	out := PlaceBelow(g, "c", []string{"n"}, BelowOptions{})
	if out.Nodes[0].Placed() {
		t.Error("missing center should leave graph unchanged")
	}
}
