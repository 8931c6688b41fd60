package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainTargetJSON(t *testing.T) {
	data, err := json.Marshal(ICPTarget())
	require.NoError(t, err)
	require.JSONEq(t, `{"Icp":null}`, string(data))

	data, err = json.Marshal(EVMTarget("BNB"))
	require.NoError(t, err)
	require.JSONEq(t, `{"Evm":"BNB"}`, string(data))

	var target ChainTarget
	require.NoError(t, json.Unmarshal([]byte(`{"Evm":"BNB"}`), &target))
	require.True(t, target.IsEVM())
	require.Equal(t, "BNB", target.Name())

	require.NoError(t, json.Unmarshal([]byte(`{"Icp":null}`), &target))
	require.True(t, target.IsICP())
	require.Equal(t, "ICP", target.Name())

	require.Error(t, json.Unmarshal([]byte(`{"Sol":"x"}`), &target))
}

func TestTransactionHandleJSON(t *testing.T) {
	evm := NewEVMTx(true, []byte{0xab, 0xcd})
	data, err := json.Marshal(evm)
	require.NoError(t, err)
	require.JSONEq(t, `{"Evm":[true,"0xabcd"]}`, string(data))

	var back TransactionHandle
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.IsEVM())
	require.True(t, back.Finalized())
	require.Equal(t, "0xabcd", back.Ref())

	icp := NewICPTx(false, 120)
	data, err = json.Marshal(icp)
	require.NoError(t, err)
	require.JSONEq(t, `{"Icp":[false,120]}`, string(data))

	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.IsICP())
	require.False(t, back.Finalized())
	index, ok := back.LedgerIndex()
	require.True(t, ok)
	require.EqualValues(t, 120, index)
	require.Equal(t, "120", back.Ref())

	_, err = json.Marshal(TransactionHandle{})
	require.Error(t, err)
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, StatusAccepted, StatusOf(nil))

	pending := &BridgeLog{From: ICPTarget(), To: EVMTarget("BNB"), FromTx: NewICPTx(false, 1)}
	require.Equal(t, StatusPending, StatusOf(pending))

	done := NewEVMTx(true, []byte{0x01})
	completed := &BridgeLog{FromTx: NewICPTx(true, 1), ToTx: &done}
	require.Equal(t, StatusCompleted, StatusOf(completed))

	failed := &BridgeLog{FromTx: NewICPTx(true, 1), Error: "insufficient liquidity"}
	require.Equal(t, StatusError, StatusOf(failed))

	require.True(t, StatusCompleted.Terminal())
	require.True(t, StatusError.Terminal())
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusAccepted.Terminal())
}
