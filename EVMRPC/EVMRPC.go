package EVMRPC

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/hashicorp/go-hclog"
)

// Connection is a token-contract-scoped connection to one EVM chain, backed
// by the candidate RPC endpoint list published in the bridge state.
type Connection struct {
	Contract      common.Address
	Confirmations uint64

	urls     []string
	selected string
	logger   hclog.Logger
}

func NewConnection(urls []string, contract string, confirmations uint64, logger hclog.Logger) *Connection {
	return &Connection{
		Contract:      common.HexToAddress(contract),
		Confirmations: confirmations,
		urls:          urls,
		logger:        logger.Named("evmrpc"),
	}
}

// SelectProvider probes the configured endpoints in order and pins the first
// one that answers a block number query.
func (c *Connection) SelectProvider(ctx context.Context) error {
	for _, url := range c.urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			c.logger.Warn("error connecting to RPC endpoint", "url", url, "err", err)
			continue
		}
		_, err = client.BlockNumber(ctx)
		client.Close()
		if err != nil {
			c.logger.Warn("RPC endpoint not responsive", "url", url, "err", err)
			continue
		}
		c.selected = url
		return nil
	}
	return fmt.Errorf("no responsive RPC endpoint among %d configured", len(c.urls))
}

// candidates returns the endpoint list with the pinned provider first.
func (c *Connection) candidates() []string {
	if c.selected == "" {
		return c.urls
	}
	urls := make([]string, 0, len(c.urls))
	urls = append(urls, c.selected)
	for _, url := range c.urls {
		if url != c.selected {
			urls = append(urls, url)
		}
	}
	return urls
}

// WithClient runs f against the pinned endpoint, falling back through the
// remaining endpoints on error.
func WithClient[T any](ctx context.Context, c *Connection, f func(client *ethclient.Client) (T, error)) (res T, err error) {
	var client *ethclient.Client
	for _, url := range c.candidates() {
		client, err = ethclient.DialContext(ctx, url)
		if err != nil {
			c.logger.Warn("error connecting to RPC endpoint", "url", url, "err", err)
			continue
		}

		res, err = f(client)
		client.Close()
		if err == nil {
			return
		}
		c.logger.Warn("RPC call failed", "url", url, "err", err)
	}
	return
}

// TransactionReceipt returns the receipt for a transaction, or nil when the
// chain does not know the transaction yet. Not-found is an answer, not a
// provider failure, so it does not trigger endpoint failover.
func (c *Connection) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	return WithClient(ctx, c, func(client *ethclient.Client) (*ethtypes.Receipt, error) {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return receipt, err
	})
}

func (c *Connection) BlockNumber(ctx context.Context) (uint64, error) {
	return WithClient(ctx, c, func(client *ethclient.Client) (uint64, error) {
		return client.BlockNumber(ctx)
	})
}

// SendRawTransaction broadcasts a signed transaction produced by the bridge
// service and returns its hash.
func (c *Connection) SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error) {
	tx := new(ethtypes.Transaction)
	if err := tx.UnmarshalBinary(rawTx); err != nil {
		return common.Hash{}, fmt.Errorf("cannot decode signed transaction: %w", err)
	}
	_, err := WithClient(ctx, c, func(client *ethclient.Client) (struct{}, error) {
		return struct{}{}, client.SendTransaction(ctx, tx)
	})
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}
