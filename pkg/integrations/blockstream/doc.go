// Package blockstream provides an HTTP client for the Blockstream Esplora API.
//
// # Overview
//
// Esplora serves Bitcoin address statistics and transaction history:
//
//	GET /address/{address}                     chain and mempool stats
//	GET /address/{address}/txs                 newest transactions (up to 25 confirmed + mempool)
//	GET /address/{address}/txs/chain/{txid}    confirmed transactions after txid
//
// History pages are keyed by the last txid seen, which makes a txid the
// natural pagination cursor.
//
// # Usage
//
//	client := blockstream.NewClient(cache, 5*time.Minute)
//	info, err := client.FetchAddress(ctx, "bc1q...", false)
//	txs, err := client.FetchTxs(ctx, "bc1q...", "", false)
//
// # Caching
//
// Responses are cached through the shared [integrations.Client] and retried
// on 5xx and transport errors. Pass refresh=true to bypass the cache.
//
// [integrations.Client]: github.com/matzehuels/walletgraph/pkg/integrations.Client
package blockstream
