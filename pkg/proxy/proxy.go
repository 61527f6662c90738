package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/walletgraph/pkg/cache"
	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/integrations"
	"github.com/matzehuels/walletgraph/pkg/observability"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// Provider names accepted by [NewProvider].
const (
	ProviderBlockstream = "blockstream"
	ProviderBlockCypher = "blockcypher"
)

// DefaultPageTTL is how long unified pages stay cached.
const DefaultPageTTL = time.Minute

// Provider fetches one unified page from a block explorer.
type Provider interface {
	Name() string
	Page(ctx context.Context, address string, limit int, cursor string, refresh bool) (*txgraph.RawPage, error)
}

// UpstreamError is a non-success response from the explorer.
type UpstreamError struct {
	Stage  string // "info", "txs" or "blockcypher"
	Status int    // upstream HTTP status
	Detail string // at most 200 bytes of the upstream body
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider error (%s): status %d", e.Stage, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// upstream tags status errors from stage as *UpstreamError and wraps
// everything else with the stage name.
func upstream(stage string, err error) error {
	var se *integrations.StatusError
	if errors.As(err, &se) {
		return &UpstreamError{
			Stage:  stage,
			Status: se.StatusCode,
			Detail: integrations.Truncate(se.Body, integrations.MaxDetailBytes),
			Err:    err,
		}
	}
	return fmt.Errorf("%s: %w", stage, err)
}

// ProviderConfig configures the explorer clients built by [NewProvider].
type ProviderConfig struct {
	BaseURL          string                   // overrides the explorer's public endpoint
	BlockCypherToken string                   // optional API token
	Limiter          *integrations.RateLimiter // shared per-host limiter, may be nil
	Backoff          *cache.Backoff           // retry policy, nil for the default
}

// NewProvider returns the provider registered under name.
// Unknown names fail with code UNSUPPORTED.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderBlockstream:
		return NewBlockstream(cfg), nil
	case ProviderBlockCypher:
		return NewBlockCypher(cfg), nil
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "Unknown provider %q", name)
	}
}

// Options configure a Service.
type Options struct {
	Cache  cache.Cache   // unified page cache; nil disables caching
	Keyer  cache.Keyer   // defaults to cache.NewDefaultKeyer()
	TTL    time.Duration // defaults to DefaultPageTTL
	Logger *log.Logger   // defaults to log.Default()
}

// Service serves unified pages from a Provider with caching.
type Service struct {
	provider Provider
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	logger   *log.Logger
}

// New creates a Service over p.
func New(p Provider, opts Options) *Service {
	s := &Service{
		provider: p,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.TTL,
		logger:   opts.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.ttl <= 0 {
		s.ttl = DefaultPageTTL
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Provider returns the configured provider.
func (s *Service) Provider() Provider { return s.provider }

// Page returns one unified page for address. The limit must already be
// clamped. With refresh the cache is bypassed.
func (s *Service) Page(ctx context.Context, address string, limit int, cursor string, refresh bool) (*txgraph.RawPage, error) {
	key := s.keyer.PageKey(s.provider.Name(), address, cache.PageKeyOpts{Limit: limit, Cursor: cursor})
	hooks := observability.Cache()

	if !refresh {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var page txgraph.RawPage
			if json.Unmarshal(data, &page) == nil {
				hooks.OnCacheHit(ctx, "page")
				return &page, nil
			}
		}
		hooks.OnCacheMiss(ctx, "page")
	}

	start := time.Now()
	page, err := s.provider.Page(ctx, address, limit, cursor, refresh)
	if err != nil {
		s.logger.Warn("provider request failed", "provider", s.provider.Name(), "address", address, "err", err)
		return nil, err
	}
	s.logger.Debug("provider page", "provider", s.provider.Name(), "address", address,
		"txs", len(page.Txs), "next", page.Cursor(), "took", time.Since(start))

	if data, err := json.Marshal(page); err == nil {
		if s.cache.Set(ctx, key, data, s.ttl) == nil {
			hooks.OnCacheSet(ctx, "page", len(data))
		}
	}
	return page, nil
}

// FetchRaw implements [txgraph.Source] without an HTTP hop, so the graph
// engine can talk to the explorer directly. Upstream status errors become
// *errors.ProviderError; other failures are NETWORK_FAILURE.
func (s *Service) FetchRaw(ctx context.Context, address string, limit int, cursor string) (*txgraph.RawPage, error) {
	page, err := s.Page(ctx, address, txgraph.ClampLimit(limit), cursor, false)
	if err == nil {
		return page, nil
	}

	var ue *UpstreamError
	switch {
	case errors.As(err, &ue):
		return nil, &errs.ProviderError{Status: ue.Status, Detail: ue.Detail}
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		return nil, errs.Wrap(errs.ErrCodeNetworkFailure, err, "fetch %s", address)
	}
}

var _ txgraph.Source = (*Service)(nil)

// paginate cuts txs to limit and returns the cursor for the next page: the
// key of the last kept item when more items were returned than kept.
func paginate[T any](items []T, limit int, key func(T) string) ([]T, *string) {
	if len(items) <= limit {
		return items, nil
	}
	page := items[:limit]
	if len(page) == 0 {
		return page, nil
	}
	next := key(page[len(page)-1])
	return page, &next
}
