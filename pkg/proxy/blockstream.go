package proxy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/walletgraph/pkg/cache"
	"github.com/matzehuels/walletgraph/pkg/integrations/blockstream"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// Blockstream adapts the Esplora API.
type Blockstream struct {
	client *blockstream.Client
}

// NewBlockstream creates the Esplora provider. Raw responses are not
// cached; the Service caches unified pages instead.
func NewBlockstream(cfg ProviderConfig) *Blockstream {
	c := blockstream.NewClient(cache.NewNullCache(), 0).WithBaseURL(cfg.BaseURL)
	if cfg.Limiter != nil {
		c.WithRateLimiter(cfg.Limiter)
	}
	if cfg.Backoff != nil {
		c.WithBackoff(*cfg.Backoff)
	}
	return &Blockstream{client: c}
}

// Name implements Provider.
func (b *Blockstream) Name() string { return ProviderBlockstream }

// Page implements Provider. Address stats and history are requested
// concurrently; the first failure cancels the other request.
func (b *Blockstream) Page(ctx context.Context, address string, limit int, cursor string, refresh bool) (*txgraph.RawPage, error) {
	var (
		info *blockstream.AddressInfo
		txs  []blockstream.Tx
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if info, err = b.client.FetchAddress(gctx, address, refresh); err != nil {
			return upstream("info", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if txs, err = b.client.FetchTxs(gctx, address, cursor, refresh); err != nil {
			return upstream("txs", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept, next := paginate(txs, limit, func(tx blockstream.Tx) string { return tx.TxID })
	stats := info.ChainStats
	total := stats.TxCount

	page := &txgraph.RawPage{
		TotalReceived: stats.FundedTxoSum,
		TotalSent:     stats.SpentTxoSum,
		FinalBalance:  stats.Balance(),
		NextCursor:    next,
		TotalTxs:      &total,
		Txs:           make([]txgraph.RawTx, len(kept)),
	}
	for i, tx := range kept {
		page.Txs[i] = unifyEsplora(tx)
	}
	return page, nil
}

func unifyEsplora(tx blockstream.Tx) txgraph.RawTx {
	out := txgraph.RawTx{
		Hash:    tx.TxID,
		Inputs:  make([]txgraph.RawIO, len(tx.Vin)),
		Outputs: make([]txgraph.RawIO, len(tx.Vout)),
	}
	for i, vin := range tx.Vin {
		var addr string
		if vin.Prevout != nil {
			addr = vin.Prevout.ScriptPubKeyAddress
		}
		out.Inputs[i] = txgraph.RawIO{Addresses: nonEmpty(addr)}
	}
	for i, vout := range tx.Vout {
		out.Outputs[i] = txgraph.RawIO{Addresses: nonEmpty(vout.ScriptPubKeyAddress)}
	}
	if tx.Status.Confirmed {
		out.Confirmations = 1
	}
	return out
}

func nonEmpty(addr string) []string {
	if addr == "" {
		return []string{}
	}
	return []string{addr}
}
