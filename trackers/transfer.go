package trackers

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/hashicorp/go-hclog"

	"goicpbridge/bridge"
	"goicpbridge/chains"
	"goicpbridge/types"
)

// ChainSource resolves the chain connection used for receipt polls.
// *bridge.Client implements it; provider selection happens lazily on the
// first successful resolve.
type ChainSource interface {
	ChainAPI(ctx context.Context, chain string) (bridge.ChainConn, error)
}

// TransferTracker follows a raw, non-bridged transfer. Ledger transfers
// settle synchronously and are complete at construction; EVM transfers poll
// the chain for a receipt. There is no error state: a transfer either
// completes or stays pending while fetch failures are logged and retried.
type TransferTracker struct {
	source   ChainSource
	chain    string
	tx       types.TransactionHandle
	interval time.Duration
	logger   hclog.Logger

	mu        sync.Mutex
	completed bool
	succeeded bool
	onChange  func(types.BridgingStatus)

	done     chan struct{}
	stopOnce sync.Once
}

// TrackTransfer starts following a transfer on the given chain. Only an
// unfinalized EVM handle actually polls; everything else is complete
// immediately.
func TrackTransfer(source ChainSource, chain string, tx types.TransactionHandle, interval time.Duration, logger hclog.Logger) *TransferTracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	t := &TransferTracker{
		source:   source,
		chain:    chain,
		tx:       tx,
		interval: interval,
		logger:   logger.Named("transfer").With("chain", chain, "tx", tx.Ref()),
		done:     make(chan struct{}),
	}

	hash, isEVM := tx.EVMHash()
	if !isEVM || tx.Finalized() {
		t.completed = true
		t.succeeded = true
		return t
	}

	go t.run(common.BytesToHash(hash))
	return t
}

func (t *TransferTracker) OnChange(hook func(types.BridgingStatus)) {
	t.mu.Lock()
	t.onChange = hook
	t.mu.Unlock()
}

// Stop suppresses any further poll.
func (t *TransferTracker) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *TransferTracker) run(hash common.Hash) {
	ctx := context.Background()
	for {
		conn, err := t.source.ChainAPI(ctx, t.chain)
		if err != nil {
			t.logger.Warn("cannot resolve chain connection", "err", err)
		} else {
			receipt, err := conn.TransactionReceipt(ctx, hash)
			switch {
			case err != nil:
				t.logger.Warn("error fetching transaction receipt", "err", err)
			case receipt != nil:
				// first receipt observation is terminal either way
				t.complete(receipt.Status == ethtypes.ReceiptStatusSuccessful)
				return
			}
			// nil receipt: chain does not know the transaction yet
		}

		select {
		case <-t.done:
			return
		case <-time.After(t.interval):
		}
	}
}

func (t *TransferTracker) complete(succeeded bool) {
	t.mu.Lock()
	t.completed = true
	t.succeeded = succeeded
	hook := t.onChange
	t.mu.Unlock()

	if hook != nil {
		hook(types.StatusCompleted)
	}
}

func (t *TransferTracker) Status() types.BridgingStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed {
		return types.StatusCompleted
	}
	return types.StatusPending
}

func (t *TransferTracker) IsComplete() bool {
	return t.Status() == types.StatusCompleted
}

// Succeeded reports the receipt outcome; only meaningful once complete.
func (t *TransferTracker) Succeeded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.succeeded
}

func (t *TransferTracker) Chain() string { return t.chain }

func (t *TransferTracker) Tx() types.TransactionHandle { return t.tx }

func (t *TransferTracker) Message() string {
	if t.IsComplete() {
		return ""
	}
	return "waiting for confirmation on " + t.chain
}

// TxURL builds the explorer link for the tracked transfer.
func (t *TransferTracker) TxURL(tokenLedger string) (string, bool) {
	target := types.EVMTarget(t.chain)
	if t.chain == "ICP" {
		target = types.ICPTarget()
	}
	tx := t.tx
	return chains.ExplorerTxURL(tokenLedger, target, &tx)
}
