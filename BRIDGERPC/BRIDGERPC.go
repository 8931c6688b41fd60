package BRIDGERPC

import (
	"fmt"
	"math/big"

	"github.com/ybbus/jsonrpc"

	"goicpbridge/types"
)

// Client talks to one bridge service instance. Every remote method answers
// with the Ok/Err envelope; call() unwraps it so the rest of the codebase
// only ever sees a value or an error.
type Client struct {
	Endpoint string
	rpc      jsonrpc.RPCClient
}

func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		rpc:      jsonrpc.NewClient(endpoint),
	}
}

func call[T any](c *Client, method string, params ...interface{}) (T, error) {
	var zero T
	resp, err := c.rpc.Call(method, params...)
	if err != nil {
		return zero, fmt.Errorf("call %s: %w", method, err)
	}
	if resp.Error != nil {
		return zero, fmt.Errorf("call %s: rpc error %d: %s", method, resp.Error.Code, resp.Error.Message)
	}
	var env types.Result[T]
	if err := resp.GetObject(&env); err != nil {
		return zero, fmt.Errorf("call %s: decode response: %w", method, err)
	}
	return env.Unwrap(method)
}

func (c *Client) Info() (*types.StateInfo, error) {
	state, err := call[types.StateInfo](c, "info")
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Bridge asks the service to move amount (token minor units) from one chain
// to the other. toAddr overrides the destination address; empty means the
// caller's own address on the destination chain.
func (c *Client) Bridge(fromChain, toChain string, amount *big.Int, toAddr string) (types.TransactionHandle, error) {
	var override interface{}
	if toAddr != "" {
		override = toAddr
	}
	return call[types.TransactionHandle](c, "bridge", fromChain, toChain, amount, override)
}

// MyBridgeLog fetches the caller's log entry recorded for the given origin
// transaction handle.
func (c *Client) MyBridgeLog(tx types.TransactionHandle) (*types.BridgeLog, error) {
	log, err := call[types.BridgeLog](c, "my_bridge_log", tx)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (c *Client) MyPendingLogs() ([]types.BridgeLog, error) {
	return call[[]types.BridgeLog](c, "my_pending_logs")
}

// MyFinalizedLogs pages through the caller's finalized entries, most recent
// first. prev is the last-seen entry ID from the previous page, nil for the
// first page. Page size is capped by the service.
func (c *Client) MyFinalizedLogs(take uint64, prev *uint64) ([]types.BridgeLog, error) {
	return call[[]types.BridgeLog](c, "my_finalized_logs", take, prev)
}

func (c *Client) PendingLogs() ([]types.BridgeLog, error) {
	return call[[]types.BridgeLog](c, "pending_logs")
}

func (c *Client) FinalizedLogs(take uint64, prev *uint64) ([]types.BridgeLog, error) {
	return call[[]types.BridgeLog](c, "finalized_logs", take, prev)
}

// ERC20TransferTx asks the service for a ready-to-broadcast signed token
// transfer on the given chain. amount is in token minor units (ledger
// precision); the service rescales to the chain's token precision.
func (c *Client) ERC20TransferTx(chain, toAddr string, amount *big.Int) (string, error) {
	return call[string](c, "erc20_transfer_tx", chain, toAddr, amount)
}

// EVMTransferTx is the native-coin variant of ERC20TransferTx. amount is in
// the chain's native precision.
func (c *Client) EVMTransferTx(chain, toAddr string, amount *big.Int) (string, error) {
	return call[string](c, "evm_transfer_tx", chain, toAddr, amount)
}

// MyEVMAddress returns the EVM address the service derived for the caller.
func (c *Client) MyEVMAddress() (string, error) {
	return call[string](c, "my_evm_address")
}
