package LEDGERRPC

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"goicpbridge/types"
)

type rpcRequest struct {
	ID     interface{}     `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func newLedger(t *testing.T, results map[string]interface{}, seen *[]rpcRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if seen != nil {
			*seen = append(*seen, req)
		}
		result, ok := results[req.Method]
		require.True(t, ok, "unexpected method %s", req.Method)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		}))
	}))
}

func TestFetchTokenInfoOverlaysMetadata(t *testing.T) {
	srv := newLedger(t, map[string]interface{}{
		"icrc1_metadata": [][2]interface{}{
			{"icrc1:name", map[string]interface{}{"Text": "Panda Token"}},
			{"icrc1:symbol", map[string]interface{}{"Text": "PANDA"}},
			{"icrc1:decimals", map[string]interface{}{"Nat": 8}},
			{"icrc1:fee", map[string]interface{}{"Nat": 10_000}},
			{"icrc1:total_supply", map[string]interface{}{"Nat": 1}}, // ignored
		},
	}, nil)
	defer srv.Close()

	base := types.TokenInfo{
		Name: "Panda", Symbol: "PANDA", Decimals: 8,
		Fee:  big.NewInt(20_000),
		Logo: "/assets/panda.png",
	}
	token, err := NewClient(srv.URL, "mxzaz-hqaaa-aaaar-qaada-cai").FetchTokenInfo(base)
	require.NoError(t, err)
	require.Equal(t, "Panda Token", token.Name)
	// the ledger fee replaces the stale bridge-reported one
	require.Equal(t, big.NewInt(10_000), token.Fee)
	// missing keys keep the base value
	require.Equal(t, "/assets/panda.png", token.Logo)
	require.Equal(t, "mxzaz-hqaaa-aaaar-qaada-cai", token.Ledger)
	require.Equal(t, big.NewInt(100_000_000), token.One)
}

func TestBalanceOf(t *testing.T) {
	srv := newLedger(t, map[string]interface{}{
		"icrc1_balance_of": 150_000_000,
	}, nil)
	defer srv.Close()

	balance, err := NewClient(srv.URL, "ledger").BalanceOf("l4u5t-aaaaa-cai")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(150_000_000), balance)
}

func TestTransferUnwrapsEnvelope(t *testing.T) {
	srv := newLedger(t, map[string]interface{}{
		"icrc1_transfer": map[string]interface{}{"Ok": 42},
	}, nil)
	defer srv.Close()

	index, err := NewClient(srv.URL, "ledger").Transfer("l4u5t-aaaaa-cai", big.NewInt(100))
	require.NoError(t, err)
	require.EqualValues(t, 42, index)
}

func TestTransferRejectionIsVerbatim(t *testing.T) {
	srv := newLedger(t, map[string]interface{}{
		"icrc1_transfer": map[string]interface{}{"Err": "InsufficientFunds { balance: 12 }"},
	}, nil)
	defer srv.Close()

	_, err := NewClient(srv.URL, "ledger").Transfer("l4u5t-aaaaa-cai", big.NewInt(100))
	var remote *types.RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, "InsufficientFunds { balance: 12 }", err.Error())
}

func TestEnsureAllowance(t *testing.T) {
	t.Run("sufficient allowance is left alone", func(t *testing.T) {
		var seen []rpcRequest
		srv := newLedger(t, map[string]interface{}{
			"icrc2_allowance": map[string]interface{}{"allowance": 1_000_000},
		}, &seen)
		defer srv.Close()

		err := NewClient(srv.URL, "ledger").EnsureAllowance("owner", "spender", big.NewInt(500_000))
		require.NoError(t, err)
		require.Len(t, seen, 1)
	})

	t.Run("short allowance is re-approved", func(t *testing.T) {
		var seen []rpcRequest
		srv := newLedger(t, map[string]interface{}{
			"icrc2_allowance": map[string]interface{}{"allowance": 100},
			"icrc2_approve":   map[string]interface{}{"Ok": 7},
		}, &seen)
		defer srv.Close()

		err := NewClient(srv.URL, "ledger").EnsureAllowance("owner", "spender", big.NewInt(500_000))
		require.NoError(t, err)
		require.Len(t, seen, 2)
		require.Equal(t, "icrc2_approve", seen[1].Method)
	})

	t.Run("expiring allowance is re-approved", func(t *testing.T) {
		var seen []rpcRequest
		srv := newLedger(t, map[string]interface{}{
			"icrc2_allowance": map[string]interface{}{"allowance": 1_000_000, "expires_at": 1},
			"icrc2_approve":   map[string]interface{}{"Ok": 8},
		}, &seen)
		defer srv.Close()

		err := NewClient(srv.URL, "ledger").EnsureAllowance("owner", "spender", big.NewInt(500_000))
		require.NoError(t, err)
		require.Len(t, seen, 2)
	})
}
