package txgraph

import "github.com/matzehuels/walletgraph/pkg/graph"

// =============================================================================
// Wire Types
// =============================================================================

// RawPage is one page of wallet data in the unified explorer shape.
type RawPage struct {
	TotalReceived int64   `json:"total_received"`
	TotalSent     int64   `json:"total_sent"`
	FinalBalance  int64   `json:"final_balance"`
	NextCursor    *string `json:"nextCursor"`
	TotalTxs      *int    `json:"totalTxs,omitempty"`
	Txs           []RawTx `json:"txs"`
}

// Cursor returns the next-page cursor, or "" when there is none.
func (p *RawPage) Cursor() string {
	if p == nil || p.NextCursor == nil {
		return ""
	}
	return *p.NextCursor
}

// RawTx is a transaction with its input and output address groups.
type RawTx struct {
	Hash          string  `json:"hash"`
	Inputs        []RawIO `json:"inputs"`
	Outputs       []RawIO `json:"outputs"`
	Confirmations int     `json:"confirmations"`
}

// RawIO is one input or output. Multisig scripts may list several addresses;
// non-standard scripts list none.
type RawIO struct {
	Addresses []string `json:"addresses"`
}

// =============================================================================
// Fetcher Output
// =============================================================================

// Page is the result of fetching one page for an address.
type Page struct {
	Fragment   graph.Graph
	Details    Details
	NextCursor string // "" when the explorer reports no further page
	PageCount  int    // transactions in the raw page, before any truncation
	Total      *int   // provider-reported transaction total, nil when unknown
}

// Details is the summary shown in the details panel.
type Details struct {
	Address       string      `json:"address"`
	TotalReceived int64       `json:"total_received"`
	TotalSent     int64       `json:"total_sent"`
	Balance       int64       `json:"balance"`
	Txs           []TxSummary `json:"txs"`
}

// TxSummary is a transaction line in the details panel.
type TxSummary struct {
	Hash          string `json:"hash"`
	Confirmations int    `json:"confirmations"`
}

// DetailsFrom builds the details panel data for address from a raw page.
func DetailsFrom(address string, raw *RawPage) Details {
	d := Details{
		Address:       address,
		TotalReceived: raw.TotalReceived,
		TotalSent:     raw.TotalSent,
		Balance:       raw.FinalBalance,
		Txs:           make([]TxSummary, len(raw.Txs)),
	}
	for i, tx := range raw.Txs {
		d.Txs[i] = TxSummary{Hash: tx.Hash, Confirmations: tx.Confirmations}
	}
	return d
}
