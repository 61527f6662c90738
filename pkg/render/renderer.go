package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/walletgraph/pkg/cache"
	"github.com/matzehuels/walletgraph/pkg/graph"
	"github.com/matzehuels/walletgraph/pkg/observability"
)

// Output formats produced by [Renderer.Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// DefaultTTL is how long rendered artifacts stay in the cache.
const DefaultTTL = 24 * time.Hour

// Request describes one render.
type Request struct {
	Graph   graph.Graph
	Format  string // FormatSVG when empty
	Engine  string // EngineDot when empty
	Scale   float64
	Options Options
}

// Renderer renders graphs and caches the output by content hash.
type Renderer struct {
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewRenderer returns a Renderer. A nil cache disables caching.
func NewRenderer(c cache.Cache, logger *log.Logger) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{cache: c, keyer: cache.NewDefaultKeyer(), ttl: DefaultTTL, logger: logger}
}

// Render produces req.Format bytes for req.Graph.
func (r *Renderer) Render(ctx context.Context, req Request) ([]byte, error) {
	if req.Format == "" {
		req.Format = FormatSVG
	}
	dot := ToDOT(req.Graph, req.Options)
	if req.Format == FormatDOT {
		return []byte(dot), nil
	}

	sum := sha256.Sum256([]byte(dot))
	key := r.keyer.RenderKey(hex.EncodeToString(sum[:]), cache.RenderKeyOpts{
		Format: fmt.Sprintf("%s@%.2f", req.Format, req.Scale),
		Engine: req.Engine,
	})

	hooks := observability.Cache()
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, "render")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "render")

	start := time.Now()
	data, err := r.render(ctx, dot, req)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("rendered graph", "format", req.Format, "engine", req.Engine, "nodes", len(req.Graph.Nodes), "took", time.Since(start))

	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Warn("render cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "render", len(data))
	}
	return data, nil
}

func (r *Renderer) render(ctx context.Context, dot string, req Request) ([]byte, error) {
	switch req.Format {
	case FormatSVG, FormatPDF, FormatPNG:
	default:
		return nil, fmt.Errorf("unknown format %q", req.Format)
	}

	svg, err := RenderSVG(ctx, dot, req.Engine)
	if err != nil {
		return nil, err
	}
	switch req.Format {
	case FormatPDF:
		return ToPDF(ctx, svg)
	case FormatPNG:
		return ToPNG(ctx, svg, req.Scale)
	default:
		return svg, nil
	}
}
