package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/walletgraph/pkg/observability"
)

// registerDebugHooks logs engine, cache and HTTP events at debug level.
func registerDebugHooks(l *log.Logger) {
	h := debugHooks{l.WithPrefix("trace")}
	observability.SetExplorerHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

type debugHooks struct{ logger *log.Logger }

func (h debugHooks) OnFetchStart(_ context.Context, address string, limit int, cursor string) {
	h.logger.Debug("fetch start", "address", address, "limit", limit, "cursor", cursor)
}

func (h debugHooks) OnFetchComplete(_ context.Context, address string, txCount int, d time.Duration, err error) {
	h.logger.Debug("fetch done", "address", address, "txs", txCount, "took", d, "err", err)
}

func (h debugHooks) OnOperation(_ context.Context, op, address, kind string, newNodes int) {
	h.logger.Debug(op, "address", address, "kind", kind, "new_nodes", newNodes)
}

func (h debugHooks) OnLayout(_ context.Context, strategy string, nodeCount int, d time.Duration) {
	h.logger.Debug("layout", "strategy", strategy, "nodes", nodeCount, "took", d)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
