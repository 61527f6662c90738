package txgraph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/walletgraph/pkg/activity"
	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/observability"
)

// Page size bounds accepted by the wallet endpoint.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// ClampLimit maps a requested page size into [1, MaxLimit].
// Zero selects DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Source fetches one raw wallet page.
//
// Implementations report non-success responses as *errors.ProviderError and
// transport failures with code NETWORK_FAILURE. They must not retry.
type Source interface {
	FetchRaw(ctx context.Context, address string, limit int, cursor string) (*RawPage, error)
}

// FetchOptions select the page to fetch.
type FetchOptions struct {
	Limit  int    // page size, clamped to [1, 50]; 0 means DefaultLimit
	Cursor string // "" for the first page
}

// Fetcher retrieves wallet pages and normalizes them into fragments.
type Fetcher struct {
	source       Source
	sink         activity.Sink
	logger       *log.Logger
	maxNeighbors int
}

// NewFetcher creates a Fetcher. A nil sink discards activity lines and a nil
// logger uses log.Default().
func NewFetcher(src Source, sink activity.Sink, logger *log.Logger) *Fetcher {
	if sink == nil {
		sink = activity.Discard
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{
		source:       src,
		sink:         sink,
		logger:       logger,
		maxNeighbors: DefaultMaxNeighborsPerTx,
	}
}

// WithMaxNeighbors overrides the per-transaction address cap.
func (f *Fetcher) WithMaxNeighbors(n int) *Fetcher {
	if n > 0 {
		f.maxNeighbors = n
	}
	return f
}

// FetchPage fetches one page for address.
//
// A blank address fails with EMPTY_ADDRESS before anything is logged or
// sent. Otherwise a "Fetching ..." line is logged, and a non-success
// response logs "API error {status}" with the response body as meta before
// the *errors.ProviderError is returned. No retries are attempted.
//
// The fragment is normalized with the page size as the transaction cap, so
// a page never contributes more transactions than were requested.
func (f *Fetcher) FetchPage(ctx context.Context, address string, opts FetchOptions) (*Page, error) {
	addr, err := errs.ValidateAddress(address)
	if err != nil {
		return nil, err
	}

	limit := ClampLimit(opts.Limit)
	cursorLabel := opts.Cursor
	if cursorLabel == "" {
		cursorLabel = "none"
	}
	activity.Infof(f.sink, "Fetching %s (limit=%d, cursor=%s)", addr, limit, cursorLabel)
	f.logger.Debug("fetching page", "address", addr, "limit", limit, "cursor", cursorLabel)

	hooks := observability.Explorer()
	hooks.OnFetchStart(ctx, addr, limit, opts.Cursor)
	start := time.Now()

	raw, err := f.source.FetchRaw(ctx, addr, limit, opts.Cursor)
	if err != nil {
		var pe *errs.ProviderError
		if errors.As(err, &pe) {
			f.sink.Log(activity.LevelError, fmt.Sprintf("API error %d", pe.Status), activity.Meta{"body": pe.Detail})
		}
		f.logger.Debug("fetch failed", "address", addr, "err", err)
		hooks.OnFetchComplete(ctx, addr, 0, time.Since(start), err)
		return nil, err
	}
	if raw == nil {
		raw = &RawPage{}
	}

	page := &Page{
		Fragment: Normalize(addr, raw, Options{
			MaxTxPerFetch:     limit,
			MaxNeighborsPerTx: f.maxNeighbors,
		}),
		Details:    DetailsFrom(addr, raw),
		NextCursor: raw.Cursor(),
		PageCount:  len(raw.Txs),
		Total:      raw.TotalTxs,
	}

	hooks.OnFetchComplete(ctx, addr, page.PageCount, time.Since(start), nil)
	f.logger.Debug("fetched page", "address", addr, "txs", page.PageCount,
		"nodes", len(page.Fragment.Nodes), "edges", len(page.Fragment.Edges), "next", page.NextCursor)
	return page, nil
}
