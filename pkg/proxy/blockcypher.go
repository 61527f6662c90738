package proxy

import (
	"context"
	"strconv"

	"github.com/matzehuels/walletgraph/pkg/cache"
	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/integrations/blockcypher"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// BlockCypher adapts the BlockCypher full-address endpoint.
type BlockCypher struct {
	client *blockcypher.Client
}

// NewBlockCypher creates the BlockCypher provider.
func NewBlockCypher(cfg ProviderConfig) *BlockCypher {
	c := blockcypher.NewClient(cache.NewNullCache(), cfg.BlockCypherToken, 0).WithBaseURL(cfg.BaseURL)
	if cfg.Limiter != nil {
		c.WithRateLimiter(cfg.Limiter)
	}
	if cfg.Backoff != nil {
		c.WithBackoff(*cfg.Backoff)
	}
	return &BlockCypher{client: c}
}

// Name implements Provider.
func (b *BlockCypher) Name() string { return ProviderBlockCypher }

// Page implements Provider. The cursor is the block height to page before.
// One more transaction than limit is requested so that a further page can
// be detected the same way as for Esplora.
func (b *BlockCypher) Page(ctx context.Context, address string, limit int, cursor string, refresh bool) (*txgraph.RawPage, error) {
	var before int64
	if cursor != "" {
		h, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil || h <= 0 {
			return nil, errs.New(errs.ErrCodeInvalidInput, "invalid cursor %q", cursor)
		}
		before = h
	}

	data, err := b.client.FetchAddress(ctx, address, limit+1, before, refresh)
	if err != nil {
		return nil, upstream("blockcypher", err)
	}

	kept, next := paginate(data.Txs, limit, func(tx blockcypher.Tx) string {
		return strconv.FormatInt(tx.BlockHeight, 10)
	})
	if next == nil && data.HasMore {
		if h := data.NextBefore(); h > 0 {
			s := strconv.FormatInt(h, 10)
			next = &s
		}
	}
	if next != nil && (*next == "" || (*next)[0] == '-') {
		next = nil
	}

	total := data.NTx
	page := &txgraph.RawPage{
		TotalReceived: data.TotalReceived,
		TotalSent:     data.TotalSent,
		FinalBalance:  data.FinalBalance,
		NextCursor:    next,
		TotalTxs:      &total,
		Txs:           make([]txgraph.RawTx, len(kept)),
	}
	for i, tx := range kept {
		page.Txs[i] = txgraph.RawTx{
			Hash:          tx.Hash,
			Inputs:        unifyCypherIO(tx.Inputs),
			Outputs:       unifyCypherIO(tx.Outputs),
			Confirmations: tx.Confirmations,
		}
	}
	return page, nil
}

func unifyCypherIO(ios []blockcypher.IO) []txgraph.RawIO {
	out := make([]txgraph.RawIO, len(ios))
	for i, io := range ios {
		addrs := io.Addresses
		if addrs == nil {
			addrs = []string{}
		}
		out[i] = txgraph.RawIO{Addresses: addrs}
	}
	return out
}
