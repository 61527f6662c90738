package blockcypher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/walletgraph/pkg/buildinfo"
	"github.com/matzehuels/walletgraph/pkg/cache"
	"github.com/matzehuels/walletgraph/pkg/integrations"
)

// DefaultBaseURL is the BlockCypher Bitcoin mainnet API.
const DefaultBaseURL = "https://api.blockcypher.com/v1/btc/main"

// MaxLimit is the largest page BlockCypher serves for the full endpoint.
const MaxLimit = 50

// Address is the response of the full-address endpoint.
type Address struct {
	Address       string `json:"address"`
	TotalReceived int64  `json:"total_received"`
	TotalSent     int64  `json:"total_sent"`
	FinalBalance  int64  `json:"final_balance"`
	NTx           int    `json:"n_tx"`
	HasMore       bool   `json:"hasMore"`
	Txs           []Tx   `json:"txs"`
}

// Tx is a BlockCypher transaction.
type Tx struct {
	Hash          string `json:"hash"`
	BlockHeight   int64  `json:"block_height"`
	Confirmations int    `json:"confirmations"`
	Inputs        []IO   `json:"inputs"`
	Outputs       []IO   `json:"outputs"`
}

// IO is a transaction input or output.
type IO struct {
	Addresses []string `json:"addresses"`
	Value     int64    `json:"value,omitempty"`
}

// NextBefore returns the block height to request the next page with, or 0
// when there is no further page. Unconfirmed transactions report height -1
// and are skipped.
func (a *Address) NextBefore() int64 {
	if !a.HasMore {
		return 0
	}
	var lowest int64
	for _, tx := range a.Txs {
		if tx.BlockHeight > 0 && (lowest == 0 || tx.BlockHeight < lowest) {
			lowest = tx.BlockHeight
		}
	}
	return lowest
}

// Client provides access to the BlockCypher API.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	token   string
}

// NewClient creates a BlockCypher client. The token may be empty.
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"User-Agent": buildinfo.UserAgent(),
	}
	return &Client{
		Client:  integrations.NewClient(backend, "blockcypher:", cacheTTL, headers),
		baseURL: DefaultBaseURL,
		token:   token,
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// FetchAddress retrieves one page of the full-address view. A before of 0
// requests the newest transactions. The limit is clamped to [1, MaxLimit].
func (c *Client) FetchAddress(ctx context.Context, address string, limit int, before int64, refresh bool) (*Address, error) {
	limit = max(1, min(limit, MaxLimit))
	key := fmt.Sprintf("%s:%d:%d", address, limit, before)

	var data Address
	err := c.Cached(ctx, key, refresh, &data, func() error {
		if err := c.Get(ctx, c.addressURL(address, limit, before), &data); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: address %s", err, address)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) addressURL(address string, limit int, before int64) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if before > 0 {
		q.Set("before", strconv.FormatInt(before, 10))
	}
	if c.token != "" {
		q.Set("token", c.token)
	}
	return fmt.Sprintf("%s/addrs/%s/full?%s", c.baseURL, integrations.PathEscape(address), q.Encode())
}
