package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ChainTarget identifies one leg of a bridge operation: either the ICP
// ledger side or a named EVM chain. Values come from the bridge service
// and are never modified locally.
type ChainTarget struct {
	icp bool
	evm string
}

func ICPTarget() ChainTarget { return ChainTarget{icp: true} }

func EVMTarget(chain string) ChainTarget { return ChainTarget{evm: chain} }

func (t ChainTarget) IsICP() bool { return t.icp }

func (t ChainTarget) IsEVM() bool { return !t.icp && t.evm != "" }

// Name returns "ICP", the EVM chain name, or "Unknown" for the zero value.
func (t ChainTarget) Name() string {
	switch {
	case t.icp:
		return "ICP"
	case t.evm != "":
		return t.evm
	default:
		return "Unknown"
	}
}

func (t ChainTarget) MarshalJSON() ([]byte, error) {
	if t.icp {
		return []byte(`{"Icp":null}`), nil
	}
	return json.Marshal(map[string]string{"Evm": t.evm})
}

func (t *ChainTarget) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if _, ok := raw["Icp"]; ok {
		*t = ChainTarget{icp: true}
		return nil
	}
	if v, ok := raw["Evm"]; ok {
		var chain string
		if err := json.Unmarshal(v, &chain); err != nil {
			return err
		}
		*t = ChainTarget{evm: chain}
		return nil
	}
	return fmt.Errorf("unknown chain target variant: %s", string(data))
}

type txKind int

const (
	txKindNone txKind = iota
	txKindEVM
	txKindICP
)

// TransactionHandle is a reference to a transfer in flight. The EVM variant
// carries the transaction hash bytes, the ICP variant the ledger block index.
// The finalized flag is authoritative only when read back from the bridge
// service; locally built handles always start unfinalized.
type TransactionHandle struct {
	kind      txKind
	finalized bool
	hash      []byte
	index     uint64
}

func NewEVMTx(finalized bool, hash []byte) TransactionHandle {
	return TransactionHandle{kind: txKindEVM, finalized: finalized, hash: hash}
}

func NewICPTx(finalized bool, index uint64) TransactionHandle {
	return TransactionHandle{kind: txKindICP, finalized: finalized, index: index}
}

func (h TransactionHandle) IsZero() bool { return h.kind == txKindNone }

func (h TransactionHandle) IsEVM() bool { return h.kind == txKindEVM }

func (h TransactionHandle) IsICP() bool { return h.kind == txKindICP }

func (h TransactionHandle) Finalized() bool { return h.finalized }

// EVMHash returns the transaction hash bytes of an EVM handle.
func (h TransactionHandle) EVMHash() ([]byte, bool) {
	if h.kind != txKindEVM {
		return nil, false
	}
	return h.hash, true
}

// LedgerIndex returns the block index of an ICP handle.
func (h TransactionHandle) LedgerIndex() (uint64, bool) {
	if h.kind != txKindICP {
		return 0, false
	}
	return h.index, true
}

// Ref renders the handle for display: 0x-prefixed hash for EVM,
// decimal block index for ICP, empty for the zero value.
func (h TransactionHandle) Ref() string {
	switch h.kind {
	case txKindEVM:
		return "0x" + hex.EncodeToString(h.hash)
	case txKindICP:
		return strconv.FormatUint(h.index, 10)
	}
	return ""
}

func (h TransactionHandle) MarshalJSON() ([]byte, error) {
	switch h.kind {
	case txKindEVM:
		return json.Marshal(map[string][2]interface{}{
			"Evm": {h.finalized, "0x" + hex.EncodeToString(h.hash)},
		})
	case txKindICP:
		return json.Marshal(map[string][2]interface{}{
			"Icp": {h.finalized, h.index},
		})
	}
	return nil, errors.New("cannot marshal zero transaction handle")
}

func (h *TransactionHandle) UnmarshalJSON(data []byte) error {
	var raw map[string][2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if pair, ok := raw["Evm"]; ok {
		var finalized bool
		var hashHex string
		if err := json.Unmarshal(pair[0], &finalized); err != nil {
			return err
		}
		if err := json.Unmarshal(pair[1], &hashHex); err != nil {
			return err
		}
		hash, err := hex.DecodeString(strings.TrimPrefix(hashHex, "0x"))
		if err != nil {
			return fmt.Errorf("invalid EVM transaction hash %q: %w", hashHex, err)
		}
		*h = TransactionHandle{kind: txKindEVM, finalized: finalized, hash: hash}
		return nil
	}
	if pair, ok := raw["Icp"]; ok {
		var finalized bool
		var index uint64
		if err := json.Unmarshal(pair[0], &finalized); err != nil {
			return err
		}
		if err := json.Unmarshal(pair[1], &index); err != nil {
			return err
		}
		*h = TransactionHandle{kind: txKindICP, finalized: finalized, index: index}
		return nil
	}
	return fmt.Errorf("unknown transaction handle variant: %s", string(data))
}

// BridgingStatus is the observable state of a tracked bridge operation.
type BridgingStatus string

const (
	StatusAccepted  BridgingStatus = "Accepted"
	StatusPending   BridgingStatus = "Pending"
	StatusCompleted BridgingStatus = "Completed"
	StatusError     BridgingStatus = "Error"
)

// Terminal reports whether the status can still change on a later poll.
func (s BridgingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// StatusOf derives the bridging status from the latest fetched log.
// A finalized destination leg wins over a recorded error; the service
// guarantees the two never appear together.
func StatusOf(log *BridgeLog) BridgingStatus {
	if log == nil {
		return StatusAccepted
	}
	if log.ToTx != nil && log.ToTx.Finalized() {
		return StatusCompleted
	}
	if log.Error != "" {
		return StatusError
	}
	return StatusPending
}
