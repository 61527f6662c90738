package explorer

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/walletgraph/pkg/activity"
	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/graph"
	"github.com/matzehuels/walletgraph/pkg/pagination"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

type call struct {
	address string
	opts    txgraph.FetchOptions
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []call
	pages map[string]*txgraph.Page
	errs  map[string]error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]*txgraph.Page{}, errs: map[string]error{}}
}

func (f *fakeFetcher) FetchPage(_ context.Context, address string, opts txgraph.FetchOptions) (*txgraph.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{address, opts})
	if err := f.errs[address]; err != nil {
		return nil, err
	}
	if p, ok := f.pages[address]; ok {
		return p, nil
	}
	return &txgraph.Page{Fragment: graph.Graph{Nodes: []graph.Node{{ID: address, Label: address}}}}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func intp(i int) *int { return &i }

func frag(ids []string, edges ...graph.Edge) graph.Graph {
	g := graph.Graph{Edges: edges}
	for _, id := range ids {
		g.Nodes = append(g.Nodes, graph.Node{ID: id, Label: id})
	}
	return g
}

func newTestController(f PageFetcher) (*Controller, *activity.Log) {
	sink := activity.New()
	c := New(f, Options{Sink: sink, Logger: log.New(io.Discard)})
	return c, sink
}

func TestInitialLoad_SetsPageInfoAndGraph(t *testing.T) {
	f := newFakeFetcher()
	f.pages["A"] = &txgraph.Page{
		Fragment:   frag([]string{"A"}),
		NextCursor: "C1",
		PageCount:  2,
		Total:      intp(10),
	}
	c, _ := newTestController(f)

	if err := c.Submit(context.Background(), "A"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	s := c.Store().Snapshot()
	info, ok := s.Pages.Get("A")
	if !ok {
		t.Fatal("no page info for A")
	}
	if info.Cursor != "C1" || info.Loaded != 2 || info.Total == nil || *info.Total != 10 {
		t.Errorf("page info = %+v, want {cursor:C1 loaded:2 total:10}", info)
	}
	if len(s.Graph.Nodes) != 1 || s.Graph.Nodes[0].ID != "A" || len(s.Graph.Edges) != 0 {
		t.Errorf("graph = %+v, want single node A", s.Graph)
	}
	if !s.Graph.Nodes[0].Placed() {
		t.Error("initial load should lay the graph out")
	}
	if s.Loading || s.Err != "" {
		t.Errorf("status loading=%v err=%q after success", s.Loading, s.Err)
	}
	if f.calls[0].opts.Limit != DefaultPageSize || f.calls[0].opts.Cursor != "" {
		t.Errorf("fetch opts = %+v", f.calls[0].opts)
	}
}

func TestExpandIfNeeded_FetchesOnce(t *testing.T) {
	f := newFakeFetcher()
	f.pages["B"] = &txgraph.Page{Fragment: frag([]string{"B", "X"}), PageCount: 1}
	c, _ := newTestController(f)

	first := c.ExpandIfNeeded(context.Background(), "B")
	second := c.ExpandIfNeeded(context.Background(), "B")

	if first.Kind != KindOK {
		t.Errorf("first = %v, want ok", first.Kind)
	}
	if second.Kind != KindSkipped {
		t.Errorf("second = %v, want skipped", second.Kind)
	}
	if n := f.callCount(); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
	if !c.Store().Snapshot().IsExpanded("B") {
		t.Error("B should be in the expanded set")
	}
}

func TestLoadMore_NoCursorLogsAndSkipsFetch(t *testing.T) {
	f := newFakeFetcher()
	c, sink := newTestController(f)
	c.Store().Update(func(s State) State {
		s.Pages = s.Pages.With("C", pagination.PageInfo{State: pagination.Exhausted, Loaded: 2, Total: intp(2)})
		return s
	})

	r := c.LoadMore(context.Background(), "C")

	if r.Kind != KindNoMorePages || !errs.Is(r.Err, errs.ErrCodeNoMorePages) {
		t.Errorf("result = %+v, want no more pages", r)
	}
	if n := f.callCount(); n != 0 {
		t.Errorf("fetch calls = %d, want 0", n)
	}
	entries := sink.Entries()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	msg := entries[0].Message
	if !strings.Contains(strings.ToLower(msg), "no more pages") || !strings.Contains(msg, "C") {
		t.Errorf("log = %q", msg)
	}
}

func TestLoadMore_AdvancesCursorAndMerges(t *testing.T) {
	f := newFakeFetcher()
	f.pages["D"] = &txgraph.Page{
		Fragment:   frag([]string{"D", "E"}, graph.Edge{ID: "E1", Source: "D", Target: "E"}),
		NextCursor: "CUR3",
		PageCount:  2,
		Total:      intp(6),
	}
	c, _ := newTestController(f)
	c.Store().Update(func(s State) State {
		s.Graph = frag([]string{"D"})
		s.Pages = s.Pages.With("D", pagination.PageInfo{State: pagination.HasCursor, Cursor: "CUR2", Loaded: 2, Total: intp(6)})
		return s
	})

	r := c.LoadMore(context.Background(), "D")
	if r.Kind != KindOK || r.NewNodes != 1 {
		t.Fatalf("result = %+v, want ok with 1 new node", r)
	}
	if f.calls[0].opts.Cursor != "CUR2" {
		t.Errorf("fetched with cursor %q, want CUR2", f.calls[0].opts.Cursor)
	}

	s := c.Store().Snapshot()
	if !s.Graph.HasNode("E") {
		t.Error("merged graph should contain E")
	}
	info, _ := s.Pages.Get("D")
	if info.Cursor != "CUR3" || info.Loaded != 4 || *info.Total != 6 {
		t.Errorf("page info = %+v, want {cursor:CUR3 loaded:4 total:6}", info)
	}
	if s.IsExpanded("D") {
		t.Error("load more must not mark the address expanded")
	}
}

func TestExpandIfNeeded_UsesStoredCursor(t *testing.T) {
	f := newFakeFetcher()
	c, _ := newTestController(f)
	c.Store().Update(func(s State) State {
		s.Pages = s.Pages.With("A", pagination.PageInfo{State: pagination.HasCursor, Cursor: "C1", Loaded: 2})
		return s
	})

	c.ExpandIfNeeded(context.Background(), "A")

	if f.calls[0].opts.Cursor != "C1" {
		t.Errorf("cursor = %q, want C1", f.calls[0].opts.Cursor)
	}
	info, _ := c.Store().Snapshot().Pages.Get("A")
	if info.Loaded != 2 || info.State != pagination.Exhausted {
		t.Errorf("page info = %+v", info)
	}
}

func TestExpandIfNeeded_Blank(t *testing.T) {
	f := newFakeFetcher()
	c, _ := newTestController(f)
	if r := c.ExpandIfNeeded(context.Background(), "  "); r.Kind != KindSkipped {
		t.Errorf("result = %v, want skipped", r.Kind)
	}
	if f.callCount() != 0 {
		t.Error("blank address should not fetch")
	}
}

func TestExpandFailureLogsWithoutUIError(t *testing.T) {
	f := newFakeFetcher()
	f.errs["B"] = &errs.ProviderError{Status: 502, Detail: "bad gateway"}
	c, sink := newTestController(f)

	r := c.ExpandIfNeeded(context.Background(), "B")

	if r.Kind != KindProviderError {
		t.Errorf("kind = %v, want provider_error", r.Kind)
	}
	s := c.Store().Snapshot()
	if s.Err != "" {
		t.Errorf("expand failure leaked into UI status: %q", s.Err)
	}
	if s.IsExpanded("B") {
		t.Error("failed expand must not mark the address expanded")
	}
	entries := sink.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "Error expanding B") || !strings.Contains(entries[0].Message, "502") {
		t.Errorf("log = %+v", entries)
	}
}

func TestLoadMoreFailureKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"provider", &errs.ProviderError{Status: 500}, KindProviderError},
		{"network", errs.New(errs.ErrCodeNetworkFailure, "dial"), KindNetworkFailure},
		{"other", context.Canceled, KindFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFetcher()
			f.errs["D"] = tt.err
			c, sink := newTestController(f)
			c.Store().Update(func(s State) State {
				s.Pages = s.Pages.With("D", pagination.PageInfo{State: pagination.HasCursor, Cursor: "X"})
				return s
			})

			r := c.LoadMore(context.Background(), "D")
			if r.Kind != tt.want {
				t.Errorf("kind = %v, want %v", r.Kind, tt.want)
			}
			if e := sink.Entries(); len(e) != 1 || !strings.HasPrefix(e[0].Message, "Error in 'Load More' for D") {
				t.Errorf("log = %+v", e)
			}
			if info, _ := c.Store().Snapshot().Pages.Get("D"); info.Cursor != "X" {
				t.Error("failed load more must keep the cursor")
			}
		})
	}
}

func TestInitialLoadFailureSetsStatus(t *testing.T) {
	f := newFakeFetcher()
	f.errs["A"] = &errs.ProviderError{Status: 404}
	c, _ := newTestController(f)

	if err := c.Submit(context.Background(), "A"); err == nil {
		t.Fatal("expected error")
	}
	v := c.View()
	if !v.IsError || !strings.Contains(v.Error, "404") || v.IsLoading {
		t.Errorf("view status = %+v", v)
	}
}

func TestOperationsLogOutcomes(t *testing.T) {
	messages := func(sink *activity.Log) []string {
		var out []string
		for _, e := range sink.Entries() {
			out = append(out, e.Message)
		}
		return out
	}

	t.Run("initial load failures", func(t *testing.T) {
		for _, err := range []error{
			&errs.ProviderError{Status: 503, Detail: "unavailable"},
			errs.New(errs.ErrCodeNetworkFailure, "dial tcp"),
		} {
			f := newFakeFetcher()
			f.errs["A"] = err
			c, sink := newTestController(f)

			if c.Submit(context.Background(), "A") == nil {
				t.Fatal("expected error")
			}
			got := messages(sink)
			if len(got) != 1 || !strings.HasPrefix(got[0], "Error loading A") {
				t.Errorf("log = %q, want one initial load error", got)
			}
			if e := sink.Entries(); len(e) == 1 && e[0].Level != activity.LevelError {
				t.Errorf("level = %s, want error", e[0].Level)
			}
		}
	})

	t.Run("successes", func(t *testing.T) {
		f := newFakeFetcher()
		f.pages["A"] = &txgraph.Page{Fragment: frag([]string{"A", "B"}), NextCursor: "C1", PageCount: 1}
		f.pages["B"] = &txgraph.Page{Fragment: frag([]string{"B", "X", "Y"}), PageCount: 1}
		c, sink := newTestController(f)
		ctx := context.Background()

		if err := c.Submit(ctx, "A"); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		c.ExpandIfNeeded(ctx, "B")
		c.LoadMore(ctx, "A")

		want := []string{
			"Loaded A: 2 addresses",
			"Expanded B: 2 new addresses",
			"Loaded more for A: 0 new addresses",
		}
		got := messages(sink)
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("log = %q, want %q", got, want)
		}
	})
}

func TestSubmitResetsEverything(t *testing.T) {
	f := newFakeFetcher()
	c, _ := newTestController(f)
	c.Store().Update(func(s State) State {
		s.Graph = frag([]string{"old"})
		s.Pages = s.Pages.With("old", pagination.PageInfo{Cursor: "c"})
		s = s.WithExpanded("old")
		s.UserArranged = true
		s.Selected = "old"
		return s
	})

	if err := c.Submit(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	s := c.Store().Snapshot()
	if !s.Graph.IsEmpty() || s.Pages.Len() != 0 || len(s.Expanded) != 0 || s.UserArranged || s.Selected != "" {
		t.Errorf("state not reset: %+v", s)
	}
	if f.callCount() != 0 {
		t.Error("blank seed should not fetch")
	}

	if err := c.Submit(context.Background(), " A "); err != nil {
		t.Fatal(err)
	}
	if s := c.Store().Snapshot(); s.Seed != "A" || !s.Graph.HasNode("A") {
		t.Errorf("after submit seed=%q graph=%+v", s.Seed, s.Graph)
	}
}

func TestUserArrangedPlacesNewNodesBelow(t *testing.T) {
	f := newFakeFetcher()
	f.pages["A"] = &txgraph.Page{Fragment: frag([]string{"A", "N1", "N2"})}
	c, _ := newTestController(f)
	c.Store().Update(func(s State) State {
		s.Graph = frag([]string{"A"})
		return s
	})

	if !c.MoveNode("A", graph.Position{X: 100, Y: 50}) {
		t.Fatal("MoveNode returned false")
	}
	c.ExpandIfNeeded(context.Background(), "A")

	g := c.Store().Snapshot().Graph
	a, _ := g.Node("A")
	if a.Position.X != 100 || a.Position.Y != 50 {
		t.Errorf("arranged node moved to %+v", a.Position)
	}
	n1, _ := g.Node("N1")
	n2, _ := g.Node("N2")
	if n1.Position == nil || n2.Position == nil {
		t.Fatal("new nodes not placed")
	}
	if n1.Position.Y != 190 || n1.Position.X != 0 || n2.Position.X != 200 {
		t.Errorf("N1 at %+v, N2 at %+v", n1.Position, n2.Position)
	}
}

func TestMoveNodeUnknown(t *testing.T) {
	c, _ := newTestController(newFakeFetcher())
	if c.MoveNode("ghost", graph.Position{}) {
		t.Error("MoveNode on unknown id should report false")
	}
	if c.Store().Snapshot().UserArranged {
		t.Error("unknown move must not set user-arranged")
	}
}

func TestRelayout(t *testing.T) {
	c, _ := newTestController(newFakeFetcher())
	c.Store().Update(func(s State) State {
		s.Graph = frag([]string{"A", "B"})
		s.Graph.Nodes[1] = s.Graph.Nodes[1].At(5, 5)
		s.UserArranged = true
		return s
	})

	c.Relayout()

	s := c.Store().Snapshot()
	if s.UserArranged {
		t.Error("relayout should clear user-arranged")
	}
	a, _ := s.Graph.Node("A")
	if a.Position == nil || a.Position.X != RelayoutRadius {
		t.Errorf("A at %+v, want x=%d", a.Position, RelayoutRadius)
	}
	b, _ := s.Graph.Node("B")
	if b.Position.X != 5 {
		t.Error("placed node should keep its position")
	}
}

func TestClearEmptiesLog(t *testing.T) {
	c, sink := newTestController(newFakeFetcher())
	if err := c.Submit(context.Background(), "A"); err != nil {
		t.Fatal(err)
	}
	sink.Log(activity.LevelInfo, "hello", nil)
	c.Select("A")

	c.Clear()

	if sink.Len() != 0 {
		t.Errorf("log has %d entries after clear", sink.Len())
	}
	if s := c.Store().Snapshot(); !s.Graph.IsEmpty() || s.Selected != "" {
		t.Errorf("state after clear = %+v", s)
	}
}

func TestHasMoreAndView(t *testing.T) {
	f := newFakeFetcher()
	f.pages["A"] = &txgraph.Page{
		Fragment:   frag([]string{"A", "B"}, graph.Edge{ID: "t-A-B", Source: "A", Target: "B"}),
		NextCursor: "next",
		PageCount:  2,
	}
	c, _ := newTestController(f)
	if err := c.Submit(context.Background(), "A"); err != nil {
		t.Fatal(err)
	}

	if hm := c.HasMore(); !hm["A"] {
		t.Errorf("HasMore = %v, want A true", hm)
	}

	v := c.View()
	a, _ := v.Graph.Node("A")
	b, _ := v.Graph.Node("B")
	if a.Position.Y != 0 || b.Position.Y != 140 {
		t.Errorf("view not laid out top-down: A=%+v B=%+v", a.Position, b.Position)
	}
	stored, _ := c.Store().Snapshot().Graph.Node("B")
	if stored.Position.Y != 150 {
		t.Errorf("stored graph changed by View: B=%+v", stored.Position)
	}

	c.MoveNode("B", graph.Position{X: 1, Y: 2})
	v = c.View()
	b, _ = v.Graph.Node("B")
	if b.Position.X != 1 || b.Position.Y != 2 || !v.UserArranged {
		t.Errorf("arranged view should keep manual positions, B=%+v", b.Position)
	}
}

func TestDetailsDoesNotTouchGraph(t *testing.T) {
	f := newFakeFetcher()
	f.pages["A"] = &txgraph.Page{
		Fragment: frag([]string{"A", "Z"}),
		Details:  txgraph.Details{Address: "A", Balance: 42},
	}
	c, _ := newTestController(f)

	d, err := c.Details(context.Background(), "A")
	if err != nil {
		t.Fatal(err)
	}
	if d.Balance != 42 {
		t.Errorf("Balance = %d, want 42", d.Balance)
	}
	if f.calls[0].opts.Limit != DefaultDetailsLimit || f.calls[0].opts.Cursor != "" {
		t.Errorf("details fetch opts = %+v", f.calls[0].opts)
	}
	if !c.Store().Snapshot().Graph.IsEmpty() {
		t.Error("details fetch modified the graph")
	}
}

func TestMemoryStoreOnChange(t *testing.T) {
	store := NewMemoryStore()
	var seen []string
	store.OnChange(func(s State) { seen = append(seen, s.Selected) })

	c := New(newFakeFetcher(), Options{Store: store})
	c.Select("x")
	c.Select("y")

	if strings.Join(seen, ",") != "x,y" {
		t.Errorf("OnChange saw %v", seen)
	}
}

func TestKindString(t *testing.T) {
	if KindNoMorePages.String() != "no_more_pages" || Kind(99).String() != "unknown" {
		t.Error("Kind.String mismatch")
	}
}
