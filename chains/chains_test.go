package chains

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goicpbridge/types"
)

func TestResolve(t *testing.T) {
	icp, err := Resolve("ICP")
	require.NoError(t, err)
	require.Equal(t, 0, icp.ID)
	require.Equal(t, "Internet Computer", icp.FullName)
	require.Equal(t, "https://www.icexplorer.io", icp.ExplorerURL)

	bnb, err := Resolve("BNB")
	require.NoError(t, err)
	require.Equal(t, 56, bnb.ID)
	require.Equal(t, "BNB Chain", bnb.FullName)
	require.Equal(t, "https://bscscan.com", bnb.ExplorerURL)

	_, err = Resolve("XYZ")
	require.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestTargetName(t *testing.T) {
	require.Equal(t, "ICP", TargetName(types.ICPTarget()))
	require.Equal(t, "BNB", TargetName(types.EVMTarget("BNB")))
	require.Equal(t, "Unknown", TargetName(types.ChainTarget{}))
}

func TestExplorerTxURL(t *testing.T) {
	const ledger = "mxzaz-hqaaa-aaaar-qaada-cai"

	t.Run("no handle means no link", func(t *testing.T) {
		_, ok := ExplorerTxURL(ledger, types.EVMTarget("BNB"), nil)
		require.False(t, ok)
	})

	t.Run("ICP links the ledger page", func(t *testing.T) {
		tx := types.NewICPTx(true, 120)
		url, ok := ExplorerTxURL(ledger, types.ICPTarget(), &tx)
		require.True(t, ok)
		require.Equal(t, "https://www.icexplorer.io/token/details/"+ledger, url)
	})

	t.Run("registered EVM chain links the transaction", func(t *testing.T) {
		tx := types.NewEVMTx(true, []byte{0xab, 0xcd})
		url, ok := ExplorerTxURL(ledger, types.EVMTarget("BNB"), &tx)
		require.True(t, ok)
		require.Equal(t, "https://bscscan.com/tx/0xabcd", url)
	})

	t.Run("unregistered chain means no link", func(t *testing.T) {
		tx := types.NewEVMTx(true, []byte{0xab})
		_, ok := ExplorerTxURL(ledger, types.EVMTarget("XYZ"), &tx)
		require.False(t, ok)
	})
}

func TestTokenURL(t *testing.T) {
	const ledger = "mxzaz-hqaaa-aaaar-qaada-cai"

	url, ok := TokenURL(ledger, "ICP", "")
	require.True(t, ok)
	require.Equal(t, "https://dashboard.internetcomputer.org/canister/"+ledger, url)

	url, ok = TokenURL(ledger, "BNB", "0x2bA64EFB7A4Ec8983E22A49c81fa216AC33f383A")
	require.True(t, ok)
	require.Equal(t, "https://bscscan.com/token/0x2bA64EFB7A4Ec8983E22A49c81fa216AC33f383A", url)

	_, ok = TokenURL(ledger, "XYZ", "0x2bA64EFB7A4Ec8983E22A49c81fa216AC33f383A")
	require.False(t, ok)
}
