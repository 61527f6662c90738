package blockstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/walletgraph/pkg/buildinfo"
	"github.com/matzehuels/walletgraph/pkg/cache"
	"github.com/matzehuels/walletgraph/pkg/integrations"
)

// DefaultBaseURL is the public Esplora instance.
const DefaultBaseURL = "https://blockstream.info/api"

// AddressInfo is the address summary returned by /address/{address}.
type AddressInfo struct {
	Address      string `json:"address"`
	ChainStats   Stats  `json:"chain_stats"`
	MempoolStats Stats  `json:"mempool_stats"`
}

// Stats are the funded/spent totals of an address, in satoshis.
type Stats struct {
	FundedTxoCount int   `json:"funded_txo_count"`
	FundedTxoSum   int64 `json:"funded_txo_sum"`
	SpentTxoCount  int   `json:"spent_txo_count"`
	SpentTxoSum    int64 `json:"spent_txo_sum"`
	TxCount        int   `json:"tx_count"`
}

// Balance returns funded minus spent.
func (s Stats) Balance() int64 { return s.FundedTxoSum - s.SpentTxoSum }

// Tx is an Esplora transaction, reduced to the fields the graph uses.
type Tx struct {
	TxID   string   `json:"txid"`
	Vin    []Vin    `json:"vin"`
	Vout   []Output `json:"vout"`
	Status Status   `json:"status"`
}

// Vin is a transaction input. Prevout is nil for coinbase inputs.
type Vin struct {
	TxID    string  `json:"txid"`
	Vout    int     `json:"vout"`
	Prevout *Output `json:"prevout"`
}

// Output is a transaction output. ScriptPubKeyAddress is empty for
// non-standard scripts such as OP_RETURN.
type Output struct {
	ScriptPubKeyAddress string `json:"scriptpubkey_address"`
	Value               int64  `json:"value"`
}

// Status is the confirmation status of a transaction.
type Status struct {
	Confirmed   bool  `json:"confirmed"`
	BlockHeight int64 `json:"block_height"`
}

// Client provides access to the Esplora API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates an Esplora client with the given cache backend and TTL.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"User-Agent": buildinfo.UserAgent(),
	}
	return &Client{
		Client:  integrations.NewClient(backend, "blockstream:", cacheTTL, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another Esplora instance.
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// FetchAddress retrieves the address summary.
//
// Returns [integrations.ErrNotFound] for unknown addresses and
// [integrations.ErrNetwork] for transport failures and other non-success statuses.
func (c *Client) FetchAddress(ctx context.Context, address string, refresh bool) (*AddressInfo, error) {
	var info AddressInfo
	err := c.Cached(ctx, "address:"+address, refresh, &info, func() error {
		return c.get(ctx, fmt.Sprintf("%s/address/%s", c.baseURL, integrations.PathEscape(address)), &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// FetchTxs retrieves transaction history, newest first. An empty afterTxID
// returns the first page; otherwise confirmed transactions after afterTxID.
func (c *Client) FetchTxs(ctx context.Context, address, afterTxID string, refresh bool) ([]Tx, error) {
	url := fmt.Sprintf("%s/address/%s/txs", c.baseURL, integrations.PathEscape(address))
	key := "txs:" + address
	if afterTxID != "" {
		url += "/chain/" + integrations.PathEscape(afterTxID)
		key += ":" + afterTxID
	}

	var txs []Tx
	err := c.Cached(ctx, key, refresh, &txs, func() error {
		return c.get(ctx, url, &txs)
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	if err := c.Get(ctx, url, v); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: %s", err, url)
		}
		return err
	}
	return nil
}
