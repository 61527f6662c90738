// Package pkg provides the core libraries for walletgraph, an explorer for
// the transaction graph around a blockchain wallet address.
//
// # Overview
//
// Walletgraph starts from a seed address, fetches its transactions page by
// page from a public block explorer and grows a graph whose nodes are
// addresses and whose edges are transactions between them. The pkg
// directory is organized into four main areas:
//
//  1. [graph], [txgraph], [layout] - Domain logic (graph model, normalization, placement)
//  2. [explorer], [pagination], [activity] - Exploration state and operations
//  3. [proxy], [integrations], [cache] - Block explorer access
//  4. [server], [session], [render], [export] - Outer surfaces
//
// # Architecture
//
// The data flow for one expand:
//
//	Block explorer (Blockstream, BlockCypher)
//	         ↓
//	    [proxy] package (unified page shape, cached per page)
//	         ↓
//	    [txgraph] package (fetch + normalize into a graph fragment)
//	         ↓
//	    [explorer] package (merge, paginate, lay out, publish state)
//	         ↓
//	    terminal UI, HTTP sessions, SVG/PDF/PNG, JSON/YAML, Neo4j, Kafka
//
// # Quick Start
//
// Explore two hops around an address through the in-process proxy:
//
//	p, _ := proxy.NewProvider("blockstream", proxy.ProviderConfig{})
//	src := proxy.New(p, proxy.Options{Cache: cache.NewNullCache()})
//	ctrl := explorer.New(txgraph.NewFetcher(src, activity.Discard, nil), explorer.Options{})
//
//	_ = ctrl.Submit(ctx, "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq")
//	for _, n := range ctrl.View().Graph.Nodes {
//	    ctrl.ExpandIfNeeded(ctx, n.ID)
//	}
//
// # Main Packages
//
// [graph] - Nodes, edges, merge semantics and the JSON node-link format.
//
// [txgraph] - Raw explorer pages, normalization into fragments, the fetcher.
//
// [layout] - Column, circle, top-down and below-parent placements.
//
// [explorer] - The exploration controller and its observable state store.
//
// [pagination] - Per-address cursor bookkeeping.
//
// [activity] - The user-facing activity log with subscribers.
//
// [proxy] - Provider adapters and the caching page service.
//
// [integrations] - Shared HTTP client, retries and rate limiting.
//
// [cache] - File, Redis and MongoDB cache backends.
//
// [server] - HTTP API: wallet proxy route, sessions and log streaming.
//
// [render] - Graphviz rendering to DOT, SVG, PDF and PNG.
//
// [export] - JSON/YAML codecs and the Neo4j and Kafka sinks.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include Redis/MongoDB backends
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/graph
// [txgraph]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/txgraph
// [layout]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/layout
// [explorer]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/explorer
// [pagination]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/pagination
// [activity]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/activity
// [proxy]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/proxy
// [integrations]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/server
// [render]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/render
// [export]: https://pkg.go.dev/github.com/matzehuels/walletgraph/pkg/export
package pkg
