package explorer

import (
	"github.com/matzehuels/walletgraph/pkg/graph"
	"github.com/matzehuels/walletgraph/pkg/layout"
)

// ViewXGap is the level spacing used when laying out the graph for display.
const ViewXGap = 240

// View is what the presentation layer renders.
type View struct {
	Seed         string          `json:"seed"`
	Graph        graph.Graph     `json:"graph"`
	IsLoading    bool            `json:"isLoading"`
	IsError      bool            `json:"isError"`
	Error        string          `json:"error,omitempty"`
	HasMore      map[string]bool `json:"hasMore"`
	Selected     string          `json:"selected,omitempty"`
	UserArranged bool            `json:"userArranged"`
}

// View returns the current state prepared for display. Unless the user has
// arranged nodes, a graph with edges is laid out top-down; the stored graph
// is not changed.
func (c *Controller) View() View {
	return ViewOf(c.store.Snapshot())
}

// ViewOf prepares s for display.
func ViewOf(s State) View {
	g := s.Graph
	if !s.UserArranged && len(g.Nodes) > 0 && len(g.Edges) > 0 {
		g = layout.TopDown(g, layout.TopDownOptions{XGap: ViewXGap})
	}
	return View{
		Seed:         s.Seed,
		Graph:        g,
		IsLoading:    s.Loading,
		IsError:      s.Err != "",
		Error:        s.Err,
		HasMore:      s.Pages.HasMoreMap(),
		Selected:     s.Selected,
		UserArranged: s.UserArranged,
	}
}
