package types

import "math/big"

// EVMContract is one chain's token contract entry in the bridge state.
type EVMContract struct {
	Address        string `json:"address"`
	Decimals       uint8  `json:"decimals"`
	FinalizedCount uint64 `json:"finalized_count"`
}

// EVMProviders is one chain's RPC endpoint entry in the bridge state.
type EVMProviders struct {
	Confirmations uint64   `json:"confirmations"`
	URLs          []string `json:"urls"`
}

// GasQuote is the bridge service's last cached gas pricing for a chain.
// Read-only here; the service manages gas itself.
type GasQuote struct {
	GasPrice       *big.Int `json:"gas_price"`
	PriorityFee    *big.Int `json:"priority_fee"`
	LastUpdatedSec uint64   `json:"last_updated"`
}

// FinalizeRound is the service's current bridging finalization round.
type FinalizeRound struct {
	Round   uint64 `json:"round"`
	Running bool   `json:"running"`
}

// StateInfo is the bridge service's published configuration and counters.
// Fetched as a whole, cached per bridge instance, never mutated locally.
type StateInfo struct {
	TokenName       string   `json:"token_name"`
	TokenSymbol     string   `json:"token_symbol"`
	TokenDecimals   uint8    `json:"token_decimals"`
	TokenLogo       string   `json:"token_logo"`
	TokenLedger     string   `json:"token_ledger"`
	TokenBridgeFee  *big.Int `json:"token_bridge_fee"`
	MinBridgeAmount *big.Int `json:"min_threshold_to_bridge"`

	ICPAddress string `json:"icp_address"`
	EVMAddress string `json:"evm_address"`
	KeyName    string `json:"key_name"`

	EVMTokenContracts map[string]EVMContract  `json:"evm_token_contracts"`
	EVMProviders      map[string]EVMProviders `json:"evm_providers"`
	EVMLatestGas      map[string]GasQuote     `json:"evm_latest_gas,omitempty"`

	FinalizeRound FinalizeRound `json:"finalize_bridging_round"`

	TotalBridgeCount   uint64   `json:"total_bridge_count"`
	TotalBridgedTokens *big.Int `json:"total_bridged_tokens"`
	TotalCollectedFees *big.Int `json:"total_collected_fees"`
	TotalWithdrawnFees *big.Int `json:"total_withdrawn_fees"`

	SubBridges []string `json:"sub_bridges,omitempty"`
}

// TokenInfo describes the bridged token as derived from StateInfo. Fee may
// later be refined by asking the ledger directly; the bridge service's
// cached fee can be stale.
type TokenInfo struct {
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Decimals uint8    `json:"decimals"`
	One      *big.Int `json:"one"` // 10^Decimals, minor units per whole token
	Fee      *big.Int `json:"fee"`
	Logo     string   `json:"logo"`
	Ledger   string   `json:"ledger"`
}

// BridgeLog is one bridging attempt as recorded by the service. The client
// never mutates a fetched entry; it re-fetches and replaces its copy.
// A non-empty Error and a finalized ToTx are mutually exclusive.
type BridgeLog struct {
	ID          *uint64            `json:"id,omitempty"`
	User        string             `json:"user"`
	From        ChainTarget        `json:"from"`
	To          ChainTarget        `json:"to"`
	FromTx      TransactionHandle  `json:"from_tx"`
	ToTx        *TransactionHandle `json:"to_tx,omitempty"`
	Amount      *big.Int           `json:"icp_amount"`
	Fee         *big.Int           `json:"fee"`
	ToAddr      string             `json:"to_addr,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   uint64             `json:"created_at"`
	FinalizedAt uint64             `json:"finalized_at"`
}
