// Package chains is the static registry of chains the bridge UI layer can
// name, link and describe. The set of chains actually bridgeable is decided
// by the bridge service state, not by this table.
package chains

import (
	"errors"
	"fmt"

	"goicpbridge/types"
)

type Chain struct {
	ID                     int // EVM chain ID, 0 for ICP
	Name                   string
	FullName               string
	NativeToken            string
	ExplorerURL            string
	Logo                   string
	AverageFinalitySeconds int
}

var ErrUnsupportedChain = errors.New("unsupported chain")

var registry = map[string]Chain{
	"ICP": {
		ID:                     0,
		Name:                   "ICP",
		FullName:               "Internet Computer",
		NativeToken:            "ICP",
		ExplorerURL:            "https://www.icexplorer.io",
		Logo:                   "/assets/icp.webp",
		AverageFinalitySeconds: 2,
	},
	"BNB": {
		ID:                     56,
		Name:                   "BNB",
		FullName:               "BNB Chain",
		NativeToken:            "BNB",
		ExplorerURL:            "https://bscscan.com",
		Logo:                   "/assets/bnb.png",
		AverageFinalitySeconds: 11,
	},
	"Eth": {
		ID:                     1,
		Name:                   "Eth",
		FullName:               "Ethereum",
		NativeToken:            "ETH",
		ExplorerURL:            "https://etherscan.io",
		Logo:                   "/assets/eth.png",
		AverageFinalitySeconds: 780,
	},
}

// Resolve maps a chain name to its descriptor. Unknown names are a caller
// error, not a transient condition.
func Resolve(name string) (Chain, error) {
	c, ok := registry[name]
	if !ok {
		return Chain{}, fmt.Errorf("%w: %s", ErrUnsupportedChain, name)
	}
	return c, nil
}

// TargetName returns the chain name a bridge target refers to.
func TargetName(target types.ChainTarget) string {
	return target.Name()
}

// ExplorerTxURL builds an explorer link for a transaction handle. Returns
// false when no handle is given or the chain is not in the registry. The
// ICP explorer cannot deep-link a single transaction by index, so the ICP
// variant links the token ledger page instead.
func ExplorerTxURL(tokenLedger string, target types.ChainTarget, tx *types.TransactionHandle) (string, bool) {
	if tx == nil || tx.IsZero() {
		return "", false
	}
	name := target.Name()
	if name == "ICP" {
		return registry["ICP"].ExplorerURL + "/token/details/" + tokenLedger, true
	}
	c, ok := registry[name]
	if !ok {
		return "", false
	}
	ref := tx.Ref()
	if ref == "" {
		return "", false
	}
	return c.ExplorerURL + "/tx/" + ref, true
}

// TokenURL builds a token-level explorer link: the ledger dashboard for ICP,
// the token contract page for a registered EVM chain.
func TokenURL(tokenLedger, chain, contract string) (string, bool) {
	if chain == "ICP" {
		return "https://dashboard.internetcomputer.org/canister/" + tokenLedger, true
	}
	c, ok := registry[chain]
	if !ok || contract == "" {
		return "", false
	}
	return c.ExplorerURL + "/token/" + contract, true
}
