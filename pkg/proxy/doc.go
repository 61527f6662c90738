// Package proxy adapts third-party block explorers into the unified wallet
// page served at GET /api/wallet/{address}.
//
// # Providers
//
// A [Provider] turns one explorer's responses into a [txgraph.RawPage]:
//
//   - "blockstream": Esplora address stats and history; the cursor is the
//     last txid of the page
//   - "blockcypher": the full-address endpoint; the cursor is a block height
//
// # Paging
//
// The limit query parameter defaults to 10 and is clamped to [1, 50]. A page
// holds at most limit transactions, and nextCursor is set only when the
// explorer returned more transactions than the page holds.
//
// # Errors
//
// Non-success upstream responses become [UpstreamError] and are answered
// with 502 and a JSON body {"error": "provider error (stage)", "detail": ...}
// carrying at most 200 bytes of the upstream body. Anything else is a 500
// {"error": "Server error"}.
//
// [txgraph.RawPage]: github.com/matzehuels/walletgraph/pkg/txgraph.RawPage
package proxy
