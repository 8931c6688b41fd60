package bridge

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/hashicorp/go-hclog"

	"goicpbridge/EVMRPC"
	"goicpbridge/LEDGERRPC"
	"goicpbridge/amount"
	"goicpbridge/chains"
	"goicpbridge/types"
)

var (
	ErrChainNotConfigured    = errors.New("no token contract configured for chain")
	ErrChainProvidersMissing = errors.New("no RPC providers configured for chain")
	ErrChainProvidersEmpty   = errors.New("RPC provider list for chain is empty")
)

// nativeDecimals is the fallback precision for native-coin amounts when no
// token metadata applies: 8 for the ICP ledger, 18 for EVM chains.
func nativeDecimals(chain string) uint8 {
	if chain == "ICP" {
		return 8
	}
	return 18
}

// Client wraps one bridge service instance. It owns the cached service
// state and everything derived from it: the token descriptor, the ledger
// connection and the per-chain connections. The cache has no TTL; it is
// rebuilt only by RefreshState.
type Client struct {
	Address string

	svc      Service
	registry *Registry
	logger   hclog.Logger

	// mu guards the cache below; holding it across the state fetch is what
	// guarantees concurrent first loads share a single fetch.
	mu     sync.Mutex
	state  *types.StateInfo
	token  *types.TokenInfo
	ledger Ledger
	conns  map[string]ChainConn

	newLedger func(ledger string) Ledger
	dialChain func(ctx context.Context, urls []string, contract string, confirmations uint64) (ChainConn, error)
}

func newClient(addr string, svc Service, registry *Registry, logger hclog.Logger) *Client {
	c := &Client{
		Address:  addr,
		svc:      svc,
		registry: registry,
		logger:   logger.Named("bridge").With("bridge", addr),
		conns:    map[string]ChainConn{},
	}
	c.newLedger = func(ledger string) Ledger {
		return LEDGERRPC.NewClient(registry.gateway, ledger)
	}
	c.dialChain = func(ctx context.Context, urls []string, contract string, confirmations uint64) (ChainConn, error) {
		conn := EVMRPC.NewConnection(urls, contract, confirmations, c.logger)
		if err := conn.SelectProvider(ctx); err != nil {
			return nil, err
		}
		return conn, nil
	}
	return c
}

// LoadState returns the cached service state, fetching it on first use.
// Callers arriving during the first fetch block on the cache lock and are
// served the same result; exactly one Info call goes out.
func (c *Client) LoadState() (*types.StateInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != nil {
		return c.state, nil
	}
	return c.fetchStateLocked()
}

// RefreshState unconditionally re-fetches the service state and rebuilds
// everything derived from it. Used after operations known to change the
// published configuration.
func (c *Client) RefreshState() (*types.StateInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = nil
	c.token = nil
	c.ledger = nil
	c.conns = map[string]ChainConn{}
	return c.fetchStateLocked()
}

func (c *Client) fetchStateLocked() (*types.StateInfo, error) {
	state, err := c.svc.Info()
	if err != nil {
		return nil, err
	}
	c.state = state
	c.token = &types.TokenInfo{
		Name:     state.TokenName,
		Symbol:   state.TokenSymbol,
		Decimals: state.TokenDecimals,
		One:      new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(state.TokenDecimals)), nil),
		Fee:      state.TokenBridgeFee,
		Logo:     state.TokenLogo,
		Ledger:   state.TokenLedger,
	}
	return c.state, nil
}

// State returns the cached state without fetching, nil before first load.
func (c *Client) State() *types.StateInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Token returns the derived token descriptor, nil before first load.
func (c *Client) Token() *types.TokenInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// TokenAPI returns the ledger connection for the bridged token, building it
// on first use. Construction refines the token fee by asking the ledger
// directly; when that fails the bridge-reported fee stands and the failure
// is only logged.
func (c *Client) TokenAPI() (Ledger, error) {
	if _, err := c.LoadState(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ledger != nil {
		return c.ledger, nil
	}

	ledger := c.newLedger(c.token.Ledger)
	info, err := ledger.FetchTokenInfo(*c.token)
	if err != nil {
		c.logger.Warn("cannot refine token fee from ledger", "ledger", c.token.Ledger, "err", err)
	} else {
		c.token = &info
	}
	c.ledger = ledger
	return c.ledger, nil
}

// ChainAPI returns the connection for an EVM chain, dialing it on first
// use with the chain's registered contract and provider list. Provider
// selection failures are surfaced unchanged.
func (c *Client) ChainAPI(ctx context.Context, chain string) (ChainConn, error) {
	state, err := c.LoadState()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if conn, ok := c.conns[chain]; ok {
		return conn, nil
	}

	contract, ok := state.EVMTokenContracts[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChainNotConfigured, chain)
	}
	providers, ok := state.EVMProviders[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChainProvidersMissing, chain)
	}
	if len(providers.URLs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrChainProvidersEmpty, chain)
	}

	conn, err := c.dialChain(ctx, providers.URLs, contract.Address, providers.Confirmations)
	if err != nil {
		return nil, err
	}
	c.conns[chain] = conn
	return conn, nil
}

// LoadSubBridges loads every delegated bridge the service lists. A delegate
// that fails to load is logged and dropped; one unreachable delegate must
// not block the rest.
func (c *Client) LoadSubBridges() ([]*Client, error) {
	state, err := c.LoadState()
	if err != nil {
		return nil, err
	}

	subs := make([]*Client, 0, len(state.SubBridges))
	for _, addr := range state.SubBridges {
		sub, err := c.registry.Load(addr)
		if err != nil {
			c.logger.Error("failed to load sub-bridge", "addr", addr, "err", err)
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// SupportChains lists the chains this bridge can move the token between:
// ICP plus every chain with a registered token contract. Chains missing
// from the local registry are skipped with a warning.
func (c *Client) SupportChains() ([]chains.Chain, error) {
	state, err := c.LoadState()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(state.EVMTokenContracts)+1)
	names = append(names, "ICP")
	for name := range state.EVMTokenContracts {
		names = append(names, name)
	}

	supported := make([]chains.Chain, 0, len(names))
	for _, name := range names {
		chain, err := chains.Resolve(name)
		if err != nil {
			c.logger.Warn("bridge supports a chain the registry does not know", "chain", name)
			continue
		}
		supported = append(supported, chain)
	}
	return supported, nil
}

// Bridge forwards a bridge request to the service. The returned handle is
// the origin-leg reference to track; it is never finalized at this point.
func (c *Client) Bridge(fromChain, toChain string, amt *big.Int, toAddr string) (types.TransactionHandle, error) {
	return c.svc.Bridge(fromChain, toChain, amt, toAddr)
}

// MyBridgeLog fetches the caller's log entry for an origin handle. Trackers
// poll through this.
func (c *Client) MyBridgeLog(tx types.TransactionHandle) (*types.BridgeLog, error) {
	return c.svc.MyBridgeLog(tx)
}

func (c *Client) MyPendingLogs() ([]types.BridgeLog, error) { return c.svc.MyPendingLogs() }

func (c *Client) MyFinalizedLogs(take uint64, prev *uint64) ([]types.BridgeLog, error) {
	return c.svc.MyFinalizedLogs(take, prev)
}

func (c *Client) PendingLogs() ([]types.BridgeLog, error) { return c.svc.PendingLogs() }

func (c *Client) FinalizedLogs(take uint64, prev *uint64) ([]types.BridgeLog, error) {
	return c.svc.FinalizedLogs(take, prev)
}

// ERC20TransferTx has the service build and sign a direct token transfer on
// the given chain. Nothing is broadcast here.
func (c *Client) ERC20TransferTx(chain, toAddr string, amt *big.Int) (string, error) {
	return c.svc.ERC20TransferTx(chain, toAddr, amt)
}

// EVMTransferTx is the native-coin variant of ERC20TransferTx.
func (c *Client) EVMTransferTx(chain, toAddr string, amt *big.Int) (string, error) {
	return c.svc.EVMTransferTx(chain, toAddr, amt)
}

func (c *Client) MyEVMAddress() (string, error) { return c.svc.MyEVMAddress() }

// ToChainAmount rescales ledger minor units to a chain's token precision.
// A chain without registered decimal metadata passes through unchanged:
// the caller gets an unconverted value, not a confirmed 1:1 rate.
func (c *Client) ToChainAmount(chain string, amt *big.Int) *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || chain == "ICP" {
		return amt
	}
	contract, ok := c.state.EVMTokenContracts[chain]
	if !ok {
		return amt
	}
	return amount.ToChainUnits(c.state.TokenDecimals, contract.Decimals, amt)
}

// FromChainAmount rescales a chain-precision balance back to ledger minor
// units, floor-dividing when the chain is more precise.
func (c *Client) FromChainAmount(chain string, amt *big.Int) *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || chain == "ICP" {
		return amt
	}
	contract, ok := c.state.EVMTokenContracts[chain]
	if !ok {
		return amt
	}
	return amount.ToChainUnits(contract.Decimals, c.state.TokenDecimals, amt)
}

// ParseAmount parses a human decimal amount into token minor units.
func (c *Client) ParseAmount(text string) (*big.Int, error) {
	if _, err := c.LoadState(); err != nil {
		return nil, err
	}
	return amount.ParseDecimal(text, c.Token().Decimals)
}

// DisplayAmount renders token minor units as a decimal string.
func (c *Client) DisplayAmount(units *big.Int) string {
	token := c.Token()
	if token == nil {
		return amount.FormatUnits(units, 0)
	}
	return amount.FormatUnits(units, token.Decimals)
}

// ParseNativeAmount parses an amount of a chain's native coin.
func (c *Client) ParseNativeAmount(chain, text string) (*big.Int, error) {
	return amount.ParseDecimal(text, nativeDecimals(chain))
}

// DisplayNativeAmount renders a native-coin balance.
func (c *Client) DisplayNativeAmount(chain string, units *big.Int) string {
	return amount.FormatUnits(units, nativeDecimals(chain))
}

// TokenURL returns the token-level explorer link for a chain: the ledger
// dashboard for ICP, the token contract page elsewhere.
func (c *Client) TokenURL(chain string) (string, bool) {
	state := c.State()
	if state == nil {
		return "", false
	}
	contract := ""
	if entry, ok := state.EVMTokenContracts[chain]; ok {
		contract = entry.Address
	}
	return chains.TokenURL(state.TokenLedger, chain, contract)
}

// LogView renders a bridge log entry for presentation: chain names,
// formatted amounts, explorer links and derived status.
type LogView struct {
	ID          uint64               `json:"id"`
	User        string               `json:"user"`
	Token       string               `json:"token"`
	From        string               `json:"from"`
	To          string               `json:"to"`
	Amount      string               `json:"amount"`
	Fee         string               `json:"fee"`
	FromTx      string               `json:"from_tx"`
	FromTxURL   string               `json:"from_tx_url,omitempty"`
	ToTx        string               `json:"to_tx,omitempty"`
	ToTxURL     string               `json:"to_tx_url,omitempty"`
	ToAddr      string               `json:"to_addr,omitempty"`
	CreatedAt   uint64               `json:"created_at"`
	FinalizedAt uint64               `json:"finalized_at"`
	Status      types.BridgingStatus `json:"status"`
	Error       string               `json:"error,omitempty"`
}

func (c *Client) LogView(log *types.BridgeLog) LogView {
	view := LogView{
		User:        log.User,
		From:        chains.TargetName(log.From),
		To:          chains.TargetName(log.To),
		Amount:      c.DisplayAmount(log.Amount),
		Fee:         c.DisplayAmount(log.Fee),
		FromTx:      log.FromTx.Ref(),
		ToAddr:      log.ToAddr,
		CreatedAt:   log.CreatedAt,
		FinalizedAt: log.FinalizedAt,
		Status:      types.StatusOf(log),
		Error:       log.Error,
	}
	if log.ID != nil {
		view.ID = *log.ID
	}
	if token := c.Token(); token != nil {
		view.Token = token.Symbol
	}
	ledger := ""
	if state := c.State(); state != nil {
		ledger = state.TokenLedger
	}
	if url, ok := chains.ExplorerTxURL(ledger, log.From, &log.FromTx); ok {
		view.FromTxURL = url
	}
	if log.ToTx != nil {
		view.ToTx = log.ToTx.Ref()
		if url, ok := chains.ExplorerTxURL(ledger, log.To, log.ToTx); ok {
			view.ToTxURL = url
		}
	}
	return view
}

// LogViews maps a page of log entries to presentation form.
func (c *Client) LogViews(logs []types.BridgeLog) []LogView {
	views := make([]LogView, 0, len(logs))
	for i := range logs {
		views = append(views, c.LogView(&logs[i]))
	}
	return views
}
