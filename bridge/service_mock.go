package bridge

import (
	"math/big"

	"github.com/stretchr/testify/mock"

	"goicpbridge/types"
)

var _ Service = (*ServiceMock)(nil)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Info() (*types.StateInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StateInfo), args.Error(1)
}

func (m *ServiceMock) Bridge(fromChain, toChain string, amount *big.Int, toAddr string) (types.TransactionHandle, error) {
	args := m.Called(fromChain, toChain, amount, toAddr)
	return args.Get(0).(types.TransactionHandle), args.Error(1)
}

func (m *ServiceMock) MyBridgeLog(tx types.TransactionHandle) (*types.BridgeLog, error) {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BridgeLog), args.Error(1)
}

func (m *ServiceMock) MyPendingLogs() ([]types.BridgeLog, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.BridgeLog), args.Error(1)
}

func (m *ServiceMock) MyFinalizedLogs(take uint64, prev *uint64) ([]types.BridgeLog, error) {
	args := m.Called(take, prev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.BridgeLog), args.Error(1)
}

func (m *ServiceMock) PendingLogs() ([]types.BridgeLog, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.BridgeLog), args.Error(1)
}

func (m *ServiceMock) FinalizedLogs(take uint64, prev *uint64) ([]types.BridgeLog, error) {
	args := m.Called(take, prev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.BridgeLog), args.Error(1)
}

func (m *ServiceMock) ERC20TransferTx(chain, toAddr string, amount *big.Int) (string, error) {
	args := m.Called(chain, toAddr, amount)
	return args.String(0), args.Error(1)
}

func (m *ServiceMock) EVMTransferTx(chain, toAddr string, amount *big.Int) (string, error) {
	args := m.Called(chain, toAddr, amount)
	return args.String(0), args.Error(1)
}

func (m *ServiceMock) MyEVMAddress() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

var _ Ledger = (*LedgerMock)(nil)

type LedgerMock struct {
	mock.Mock
}

func (m *LedgerMock) FetchTokenInfo(base types.TokenInfo) (types.TokenInfo, error) {
	args := m.Called(base)
	return args.Get(0).(types.TokenInfo), args.Error(1)
}

func (m *LedgerMock) BalanceOf(owner string) (*big.Int, error) {
	args := m.Called(owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *LedgerMock) Transfer(to string, amt *big.Int) (uint64, error) {
	args := m.Called(to, amt)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *LedgerMock) TransferFrom(from, to string, amt *big.Int) (uint64, error) {
	args := m.Called(from, to, amt)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *LedgerMock) EnsureAllowance(owner, spender string, amt *big.Int) error {
	args := m.Called(owner, spender, amt)
	return args.Error(0)
}
