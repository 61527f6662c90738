// Package txgraph turns block explorer pages into graph fragments.
//
// A wallet page ([RawPage]) is the unified shape served at
// GET /api/wallet/{address}: balance totals, an opaque pagination cursor and
// a list of transactions with their input and output addresses.
//
// [Normalize] converts one page into a [graph.Graph] fragment centered on the
// queried address. Every (input, output) address pair of a transaction
// becomes an edge, so fan-out is capped on both axes: at most
// [DefaultMaxTxPerFetch] transactions per page and [DefaultMaxNeighborsPerTx]
// addresses per side of a transaction.
//
// [Fetcher] is the page fetcher used by the explorer: it validates the
// address, logs the request to the activity log, calls a [Source] and
// returns a [Page] with the fragment, the details panel data and the
// pagination fields.
//
// [graph.Graph]: github.com/matzehuels/walletgraph/pkg/graph.Graph
package txgraph
