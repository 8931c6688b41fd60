package bridge

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"goicpbridge/BRIDGERPC"
)

// Registry caches one Client per bridge service address. It is created once
// at startup by the composition root, lives for the whole session, and is
// only cleared on an explicit logout/reset.
type Registry struct {
	gateway string
	logger  hclog.Logger

	mu      sync.Mutex
	bridges map[string]*Client

	newService func(addr string) Service
}

// NewRegistry builds a registry resolving bridge addresses against the
// given RPC gateway base URL.
func NewRegistry(gateway string, logger hclog.Logger) *Registry {
	r := &Registry{
		gateway: strings.TrimRight(gateway, "/"),
		logger:  logger,
		bridges: map[string]*Client{},
	}
	r.newService = func(addr string) Service {
		return BRIDGERPC.NewClient(r.gateway + "/" + addr)
	}
	return r
}

// Load returns the client for a bridge service address, constructing it and
// loading its state on first use. The instance stays cached even when the
// initial state load fails, so a later Load retries the fetch instead of
// rebuilding the client.
func (r *Registry) Load(addr string) (*Client, error) {
	r.mu.Lock()
	c, ok := r.bridges[addr]
	if !ok {
		c = newClient(addr, r.newService(addr), r, r.logger)
		r.bridges[addr] = c
	}
	r.mu.Unlock()

	if _, err := c.LoadState(); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear drops every cached bridge instance. Safe only between sessions.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.bridges = map[string]*Client{}
	r.mu.Unlock()
}
