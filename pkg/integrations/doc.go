// Package integrations provides HTTP clients for block explorer APIs.
//
// # Overview
//
// Each upstream explorer has its own subpackage:
//
//   - [blockstream]: Esplora API at blockstream.info (default provider)
//   - [blockcypher]: BlockCypher v1 API
//   - [walletapi]: the unified /api/wallet endpoint served by `walletgraph serve`
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	client := blockstream.NewClient(c, time.Hour)           // cache + TTL
//	info, err := client.FetchAddress(ctx, addr, false)      // false = use cache
//
// Clients handle:
//   - HTTP requests with retry and per-host rate limiting
//   - Response caching through [cache.Cache] (file, Redis or MongoDB)
//   - API-specific parsing into Go structs
//
// # Shared Infrastructure
//
// The [Client] type provides the shared HTTP plumbing. Non-success responses
// become [*StatusError] values that keep the status code and the first bytes
// of the body, so callers can surface upstream detail without re-reading it.
//
// [blockstream]: github.com/matzehuels/walletgraph/pkg/integrations/blockstream
// [blockcypher]: github.com/matzehuels/walletgraph/pkg/integrations/blockcypher
// [walletapi]: github.com/matzehuels/walletgraph/pkg/integrations/walletapi
// [cache.Cache]: github.com/matzehuels/walletgraph/pkg/cache.Cache
package integrations
