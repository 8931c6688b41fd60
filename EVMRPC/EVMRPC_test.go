package EVMRPC

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

const testContract = "0x2bA64EFB7A4Ec8983E22A49c81fa216AC33f383A"

// fakeNode is a minimal chain RPC endpoint. height <= 0 makes every call
// answer with an RPC error.
type fakeNode struct {
	mu     sync.Mutex
	height int64
	calls  int
	srv    *httptest.Server
}

func newFakeNode(t *testing.T, height int64) *fakeNode {
	t.Helper()
	n := &fakeNode{height: height}
	n.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     interface{} `json:"id"`
			Method string      `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		n.mu.Lock()
		n.calls++
		height := n.height
		n.mu.Unlock()

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		switch {
		case height <= 0:
			resp["error"] = map[string]interface{}{"code": -32000, "message": "node out of sync"}
		case req.Method == "eth_blockNumber":
			resp["result"] = hexutil.EncodeUint64(uint64(height))
		case req.Method == "eth_getTransactionReceipt":
			resp["result"] = nil
		default:
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(n.srv.Close)
	return n
}

func (n *fakeNode) setHeight(h int64) {
	n.mu.Lock()
	n.height = h
	n.mu.Unlock()
}

func (n *fakeNode) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

func TestSelectProviderPinsFirstResponsive(t *testing.T) {
	dead := newFakeNode(t, 0)
	live := newFakeNode(t, 16)
	spare := newFakeNode(t, 16)

	conn := NewConnection([]string{dead.srv.URL, live.srv.URL, spare.srv.URL}, testContract, 3, hclog.NewNullLogger())
	require.NoError(t, conn.SelectProvider(context.Background()))
	require.Equal(t, live.srv.URL, conn.selected)
	// probing stops at the first responsive endpoint
	require.Zero(t, spare.count())

	// pinned endpoint first, the rest keep their configured order
	require.Equal(t, []string{live.srv.URL, dead.srv.URL, spare.srv.URL}, conn.candidates())
}

func TestSelectProviderAllUnresponsive(t *testing.T) {
	a := newFakeNode(t, 0)
	b := newFakeNode(t, 0)

	conn := NewConnection([]string{a.srv.URL, b.srv.URL}, testContract, 3, hclog.NewNullLogger())
	err := conn.SelectProvider(context.Background())
	require.EqualError(t, err, "no responsive RPC endpoint among 2 configured")
}

func TestBlockNumberFailsOverFromPinned(t *testing.T) {
	first := newFakeNode(t, 16)
	second := newFakeNode(t, 22)

	conn := NewConnection([]string{first.srv.URL, second.srv.URL}, testContract, 3, hclog.NewNullLogger())
	require.NoError(t, conn.SelectProvider(context.Background()))
	require.Equal(t, first.srv.URL, conn.selected)

	// the pinned endpoint goes bad; the call falls through to the next one
	first.setHeight(0)
	pinned := first.count()
	height, err := conn.BlockNumber(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 22, height)
	require.Greater(t, first.count(), pinned, "pinned endpoint must be tried first")
}

func TestTransactionReceiptNotFound(t *testing.T) {
	node := newFakeNode(t, 16)
	spare := newFakeNode(t, 16)

	conn := NewConnection([]string{node.srv.URL, spare.srv.URL}, testContract, 3, hclog.NewNullLogger())
	require.NoError(t, conn.SelectProvider(context.Background()))

	receipt, err := conn.TransactionReceipt(context.Background(), common.HexToHash("0xabcd"))
	require.NoError(t, err)
	require.Nil(t, receipt)
	// an unknown transaction is an answer, not a provider failure
	require.Zero(t, spare.count())
}
