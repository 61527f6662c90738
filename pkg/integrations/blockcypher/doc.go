// Package blockcypher provides an HTTP client for the BlockCypher address API.
//
// The full-address endpoint returns balances and transactions with their
// input and output address lists in one response:
//
//	GET /v1/btc/main/addrs/{address}/full?limit=N&before=H&token=T
//
// Pages are walked backwards by block height: when hasMore is set, the next
// page is requested with before set to the lowest height seen.
//
// An API token is optional; anonymous requests are heavily rate limited.
package blockcypher
