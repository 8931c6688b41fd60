package LEDGERRPC

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ybbus/jsonrpc"

	"goicpbridge/types"
)

// Client talks to one ICRC token ledger through the configured gateway.
// Plain queries return bare values; mutating calls answer with the same
// Ok/Err envelope the bridge service uses.
type Client struct {
	Ledger string
	rpc    jsonrpc.RPCClient
}

// NewClient connects to the ledger identified by its canister ID. gateway is
// the base URL of the ledger RPC gateway.
func NewClient(gateway, ledger string) *Client {
	return &Client{
		Ledger: ledger,
		rpc:    jsonrpc.NewClient(strings.TrimRight(gateway, "/") + "/" + ledger),
	}
}

type metadataValue struct {
	Text *string  `json:"Text,omitempty"`
	Nat  *big.Int `json:"Nat,omitempty"`
}

// FetchTokenInfo reads the ledger's metadata and overlays it on base.
// Unknown metadata keys are ignored; missing keys keep the base value.
func (c *Client) FetchTokenInfo(base types.TokenInfo) (types.TokenInfo, error) {
	resp, err := c.rpc.Call("icrc1_metadata")
	if err != nil {
		return base, fmt.Errorf("call icrc1_metadata: %w", err)
	}
	if resp.Error != nil {
		return base, fmt.Errorf("call icrc1_metadata: rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	var entries [][2]json.RawMessage
	if err := resp.GetObject(&entries); err != nil {
		return base, fmt.Errorf("call icrc1_metadata: decode response: %w", err)
	}

	token := base
	token.Ledger = c.Ledger
	for _, entry := range entries {
		var key string
		if err := json.Unmarshal(entry[0], &key); err != nil {
			continue
		}
		var value metadataValue
		if err := json.Unmarshal(entry[1], &value); err != nil {
			continue
		}
		switch key {
		case "icrc1:name":
			if value.Text != nil {
				token.Name = *value.Text
			}
		case "icrc1:symbol":
			if value.Text != nil {
				token.Symbol = *value.Text
			}
		case "icrc1:decimals":
			if value.Nat != nil {
				token.Decimals = uint8(value.Nat.Uint64())
				token.One = new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(uint64(token.Decimals)), nil)
			}
		case "icrc1:fee":
			if value.Nat != nil {
				token.Fee = value.Nat
			}
		case "icrc1:logo":
			if value.Text != nil {
				token.Logo = *value.Text
			}
		}
	}
	return token, nil
}

func (c *Client) BalanceOf(owner string) (*big.Int, error) {
	resp, err := c.rpc.Call("icrc1_balance_of", owner)
	if err != nil {
		return nil, fmt.Errorf("call icrc1_balance_of: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("call icrc1_balance_of: rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	balance := new(big.Int)
	if err := resp.GetObject(balance); err != nil {
		return nil, fmt.Errorf("call icrc1_balance_of: decode response: %w", err)
	}
	return balance, nil
}

// Allowance is the ICRC-2 approval the owner granted a spender.
type Allowance struct {
	Allowance *big.Int `json:"allowance"`
	ExpiresAt uint64   `json:"expires_at,omitempty"` // nanoseconds since epoch, 0 = no expiry
}

func (c *Client) Allowance(owner, spender string) (Allowance, error) {
	resp, err := c.rpc.Call("icrc2_allowance", owner, spender)
	if err != nil {
		return Allowance{}, fmt.Errorf("call icrc2_allowance: %w", err)
	}
	if resp.Error != nil {
		return Allowance{}, fmt.Errorf("call icrc2_allowance: rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	var allowance Allowance
	if err := resp.GetObject(&allowance); err != nil {
		return Allowance{}, fmt.Errorf("call icrc2_allowance: decode response: %w", err)
	}
	return allowance, nil
}

func (c *Client) mutate(method string, params ...interface{}) (uint64, error) {
	resp, err := c.rpc.Call(method, params...)
	if err != nil {
		return 0, fmt.Errorf("call %s: %w", method, err)
	}
	if resp.Error != nil {
		return 0, fmt.Errorf("call %s: rpc error %d: %s", method, resp.Error.Code, resp.Error.Message)
	}
	var env types.Result[uint64]
	if err := resp.GetObject(&env); err != nil {
		return 0, fmt.Errorf("call %s: decode response: %w", method, err)
	}
	return env.Unwrap(method)
}

// Approve grants the spender an allowance and returns the ledger block index.
func (c *Client) Approve(spender string, amt *big.Int) (uint64, error) {
	return c.mutate("icrc2_approve", spender, amt)
}

// EnsureAllowance re-approves when the current allowance is short of amt or
// expires within the next minute.
func (c *Client) EnsureAllowance(owner, spender string, amt *big.Int) error {
	allowance, err := c.Allowance(owner, spender)
	if err != nil {
		return err
	}
	soon := uint64(time.Now().Add(time.Minute).UnixNano())
	if allowance.Allowance == nil || allowance.Allowance.Cmp(amt) < 0 ||
		(allowance.ExpiresAt > 0 && allowance.ExpiresAt < soon) {
		_, err = c.Approve(spender, amt)
		return err
	}
	return nil
}

// Transfer moves amt minor units to the given principal and returns the
// ledger block index of the transfer.
func (c *Client) Transfer(to string, amt *big.Int) (uint64, error) {
	return c.mutate("icrc1_transfer", to, amt)
}

func (c *Client) TransferFrom(from, to string, amt *big.Int) (uint64, error) {
	return c.mutate("icrc2_transfer_from", from, to, amt)
}
