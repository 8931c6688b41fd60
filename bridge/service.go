// Package bridge is the client-side façade over a remote bridge service:
// it caches the service's published state, derives the token descriptor,
// hands out per-chain and ledger connections, and forwards bridge and
// transfer requests.
package bridge

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"goicpbridge/types"
)

// Service is the bridge service surface this client consumes. Implemented
// by BRIDGERPC.Client; mocked in tests.
type Service interface {
	Info() (*types.StateInfo, error)
	Bridge(fromChain, toChain string, amount *big.Int, toAddr string) (types.TransactionHandle, error)
	MyBridgeLog(tx types.TransactionHandle) (*types.BridgeLog, error)
	MyPendingLogs() ([]types.BridgeLog, error)
	MyFinalizedLogs(take uint64, prev *uint64) ([]types.BridgeLog, error)
	PendingLogs() ([]types.BridgeLog, error)
	FinalizedLogs(take uint64, prev *uint64) ([]types.BridgeLog, error)
	ERC20TransferTx(chain, toAddr string, amount *big.Int) (string, error)
	EVMTransferTx(chain, toAddr string, amount *big.Int) (string, error)
	MyEVMAddress() (string, error)
}

// Ledger is the slice of the token ledger surface the client needs.
// Implemented by LEDGERRPC.Client.
type Ledger interface {
	FetchTokenInfo(base types.TokenInfo) (types.TokenInfo, error)
	BalanceOf(owner string) (*big.Int, error)
	Transfer(to string, amt *big.Int) (uint64, error)
	TransferFrom(from, to string, amt *big.Int) (uint64, error)
	EnsureAllowance(owner, spender string, amt *big.Int) error
}

// ChainConn is an established connection to one EVM chain: broadcast a
// service-signed transfer, poll for its receipt. Implemented by
// EVMRPC.Connection.
type ChainConn interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error)
}
