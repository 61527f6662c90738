package explorer

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/walletgraph/pkg/activity"
	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/graph"
	"github.com/matzehuels/walletgraph/pkg/layout"
	"github.com/matzehuels/walletgraph/pkg/observability"
	"github.com/matzehuels/walletgraph/pkg/pagination"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// Defaults for Options.
const (
	DefaultPageSize     = 2
	DefaultDetailsLimit = 10
	RelayoutRadius      = 320
)

// PageFetcher fetches one normalized page. *txgraph.Fetcher implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, address string, opts txgraph.FetchOptions) (*txgraph.Page, error)
}

// Options configure a Controller. Zero values select defaults.
type Options struct {
	Store        Store         // defaults to a new MemoryStore
	Sink         activity.Sink // defaults to activity.Discard
	Logger       *log.Logger   // defaults to log.Default()
	PageSize     int           // transactions per expand or load-more, default 2
	DetailsLimit int           // transactions in the details panel, default 10
}

// Controller runs exploration operations against a Store.
// All methods are safe for concurrent use.
type Controller struct {
	store        Store
	fetcher      PageFetcher
	sink         activity.Sink
	logger       *log.Logger
	pageSize     int
	detailsLimit int
}

// New creates a Controller that fetches through f.
func New(f PageFetcher, opts Options) *Controller {
	c := &Controller{
		store:        opts.Store,
		fetcher:      f,
		sink:         opts.Sink,
		logger:       opts.Logger,
		pageSize:     opts.PageSize,
		detailsLimit: opts.DetailsLimit,
	}
	if c.store == nil {
		c.store = NewMemoryStore()
	}
	if c.sink == nil {
		c.sink = activity.Discard
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.detailsLimit <= 0 {
		c.detailsLimit = DefaultDetailsLimit
	}
	return c
}

// Store returns the controller's store.
func (c *Controller) Store() Store { return c.store }

// PageSize returns the page size used for graph fetches.
func (c *Controller) PageSize() int { return c.pageSize }

// =============================================================================
// Loading
// =============================================================================

// Submit starts a new exploration from address. The graph, pagination,
// expanded set, user-arranged flag and selection are reset in one update,
// then the initial page is loaded. A blank address only resets.
func (c *Controller) Submit(ctx context.Context, address string) error {
	addr := strings.TrimSpace(address)
	c.store.Update(func(s State) State {
		next := NewState()
		next.Seed = addr
		return next
	})
	if addr == "" {
		return nil
	}
	return c.initialLoad(ctx, addr)
}

// initialLoad fetches the first page of address and replaces the graph
// with its fragment laid out in a column. The pagination entry for address
// is started from the result. On failure the error status is set on the
// state and the graph is left as it was. Callers reset the state first.
func (c *Controller) initialLoad(ctx context.Context, address string) error {
	c.store.Update(func(s State) State {
		s.Loading = true
		s.Err = ""
		return s
	})

	page, err := c.fetcher.FetchPage(ctx, address, txgraph.FetchOptions{Limit: c.pageSize})
	if err != nil {
		activity.Errorf(c.sink, "Error loading %s: %s", address, errs.UserMessage(err))
		c.logger.Error("initial load failed", "address", address, "err", err)
		c.store.Update(func(s State) State {
			s.Loading = false
			s.Err = errs.UserMessage(err)
			return s
		})
		observability.Explorer().OnOperation(ctx, "initial", address, kindOf(err).String(), 0)
		return err
	}

	start := time.Now()
	laid := layout.Vertical(graph.Merge(graph.Empty(), page.Fragment), layout.VerticalOptions{})
	observability.Explorer().OnLayout(ctx, "vertical", len(laid.Nodes), time.Since(start))

	c.store.Update(func(s State) State {
		prev, _ := s.Pages.Get(address)
		s.Graph = laid
		s.Pages = s.Pages.With(address, pagination.Start(prev, resultOf(page)))
		s.Loading = false
		s.Err = ""
		return s
	})

	activity.Infof(c.sink, "Loaded %s: %d addresses", address, len(laid.Nodes))
	c.logger.Info("loaded seed", "address", address, "nodes", len(laid.Nodes), "edges", len(laid.Edges), "next", page.NextCursor)
	observability.Explorer().OnOperation(ctx, "initial", address, KindOK.String(), len(laid.Nodes))
	return nil
}

// =============================================================================
// Expansion
// =============================================================================

// ExpandIfNeeded fetches the next page of address once. Blank addresses and
// addresses that already completed an expand are skipped without a fetch.
// Concurrent first expands of the same address may both fetch.
//
// On success the fragment is merged into the existing graph, the address
// joins the expanded set and its pagination entry advances. Failures are
// logged as "Error expanding ..." and returned in the Result.
func (c *Controller) ExpandIfNeeded(ctx context.Context, address string) Result {
	addr := strings.TrimSpace(address)
	if addr == "" || c.store.Snapshot().IsExpanded(addr) {
		return Result{Kind: KindSkipped}
	}

	page, err := c.fetcher.FetchPage(ctx, addr, txgraph.FetchOptions{
		Limit:  c.pageSize,
		Cursor: c.store.Snapshot().Pages.Cursor(addr),
	})
	if err != nil {
		r := failed(err)
		activity.Errorf(c.sink, "Error expanding %s: %s", addr, errs.UserMessage(err))
		c.logger.Warn("expand failed", "address", addr, "kind", r.Kind, "err", err)
		observability.Explorer().OnOperation(ctx, "expand", addr, r.Kind.String(), 0)
		return r
	}

	added := c.apply(ctx, addr, page, true)
	activity.Infof(c.sink, "Expanded %s: %d new addresses", addr, added)
	c.logger.Info("expanded address", "address", addr, "new_nodes", added, "next", page.NextCursor)
	observability.Explorer().OnOperation(ctx, "expand", addr, KindOK.String(), added)
	return Result{Kind: KindOK, NewNodes: added}
}

// LoadMore fetches the page after the stored cursor of address. Without a
// cursor nothing is fetched, "There are no more pages for ..." is logged and
// a KindNoMorePages result is returned. Fetch failures are logged as
// "Error in 'Load More' for ...".
func (c *Controller) LoadMore(ctx context.Context, address string) Result {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return Result{Kind: KindSkipped}
	}

	cursor := c.store.Snapshot().Pages.Cursor(addr)
	if cursor == "" {
		activity.Infof(c.sink, "There are no more pages for %s", addr)
		observability.Explorer().OnOperation(ctx, "load_more", addr, KindNoMorePages.String(), 0)
		return Result{Kind: KindNoMorePages, Err: errs.New(errs.ErrCodeNoMorePages, "no more pages for %s", addr)}
	}

	page, err := c.fetcher.FetchPage(ctx, addr, txgraph.FetchOptions{Limit: c.pageSize, Cursor: cursor})
	if err != nil {
		r := failed(err)
		activity.Errorf(c.sink, "Error in 'Load More' for %s: %s", addr, errs.UserMessage(err))
		c.logger.Warn("load more failed", "address", addr, "kind", r.Kind, "err", err)
		observability.Explorer().OnOperation(ctx, "load_more", addr, r.Kind.String(), 0)
		return r
	}

	added := c.apply(ctx, addr, page, false)
	activity.Infof(c.sink, "Loaded more for %s: %d new addresses", addr, added)
	c.logger.Info("loaded more", "address", addr, "new_nodes", added, "next", page.NextCursor)
	observability.Explorer().OnOperation(ctx, "load_more", addr, KindOK.String(), added)
	return Result{Kind: KindOK, NewNodes: added}
}

// apply merges page into the graph in one store update and returns the
// number of nodes it introduced. When the user has arranged nodes, the new
// ones are placed in a row below address.
func (c *Controller) apply(ctx context.Context, address string, page *txgraph.Page, markExpanded bool) int {
	var added int
	c.store.Update(func(s State) State {
		fresh := graph.NewNodeIDs(s.Graph, page.Fragment)
		added = len(fresh)
		merged := graph.Merge(s.Graph, page.Fragment)
		if s.UserArranged && len(fresh) > 0 {
			merged = layout.PlaceBelow(merged, address, fresh, layout.BelowOptions{})
		}
		prev, _ := s.Pages.Get(address)
		s.Graph = merged
		s.Pages = s.Pages.With(address, pagination.Advance(prev, resultOf(page)))
		if markExpanded {
			s = s.WithExpanded(address)
		}
		return s
	})
	return added
}

func resultOf(p *txgraph.Page) pagination.Result {
	return pagination.Result{Cursor: p.NextCursor, PageCount: p.PageCount, Total: p.Total}
}

// =============================================================================
// Arrangement and Selection
// =============================================================================

// MoveNode pins node id at pos and turns automatic layout off. Unknown ids
// are ignored and report false.
func (c *Controller) MoveNode(id string, pos graph.Position) bool {
	moved := false
	c.store.Update(func(s State) State {
		idx, ok := s.Graph.NodeIndex()[id]
		if !ok {
			return s
		}
		g := s.Graph.Clone()
		g.Nodes[idx] = g.Nodes[idx].At(pos.X, pos.Y)
		s.Graph = g
		s.UserArranged = true
		moved = true
		return s
	})
	return moved
}

// Relayout turns automatic layout back on and places unplaced nodes on a
// circle of radius RelayoutRadius.
func (c *Controller) Relayout() {
	c.store.Update(func(s State) State {
		s.UserArranged = false
		s.Graph = layout.Circle(s.Graph, layout.CircleOptions{Radius: RelayoutRadius})
		return s
	})
}

// Select marks id as the selected node. An empty id clears the selection.
func (c *Controller) Select(id string) {
	c.store.Update(func(s State) State {
		s.Selected = id
		return s
	})
}

// Clear resets the state and empties the activity log.
func (c *Controller) Clear() {
	c.store.Update(func(State) State { return NewState() })
	c.sink.Update(func([]activity.Entry) []activity.Entry { return nil })
}

// =============================================================================
// Queries
// =============================================================================

// HasMore reports, for every address with pagination state, whether another
// page may exist.
func (c *Controller) HasMore() map[string]bool {
	return c.store.Snapshot().Pages.HasMoreMap()
}

// Details fetches the details panel data for address: the first
// DetailsLimit transactions and the balances. The graph is not touched.
func (c *Controller) Details(ctx context.Context, address string) (*txgraph.Details, error) {
	page, err := c.fetcher.FetchPage(ctx, address, txgraph.FetchOptions{Limit: c.detailsLimit})
	if err != nil {
		return nil, err
	}
	return &page.Details, nil
}
