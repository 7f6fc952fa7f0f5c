// Package client submits transactions to a peer.
package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	ledger "github.com/wippyai/wasm-ledger"
	"github.com/wippyai/wasm-ledger/errors"
)

// Receipt records an executed transaction.
type Receipt struct {
	ID      string
	Elapsed time.Duration
}

type Client struct {
	peer *ledger.Peer
	log  *zap.Logger
}

func New(peer *ledger.Peer) *Client {
	return &Client{peer: peer, log: Logger()}
}

// SubmitTransaction executes tx on the peer and waits for the outcome.
func (c *Client) SubmitTransaction(ctx context.Context, tx *ledger.Transaction) (Receipt, error) {
	if c.peer == nil {
		return Receipt{}, errors.NotInitialized(errors.PhaseRuntime, "peer")
	}
	if tx == nil {
		return Receipt{}, errors.InvalidInput(errors.PhaseRuntime, "nil transaction")
	}

	start := time.Now()
	if err := c.peer.Execute(ctx, tx); err != nil {
		return Receipt{}, err
	}
	r := Receipt{ID: tx.ID, Elapsed: time.Since(start)}
	c.log.Debug("transaction submitted", zap.String("id", r.ID), zap.Duration("elapsed", r.Elapsed))
	return r, nil
}
