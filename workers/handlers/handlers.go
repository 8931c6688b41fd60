// Package handlers implements the HTTP API over the bridge client: state
// and log queries, bridge submission and tracker polling.
package handlers

import (
	"github.com/hashicorp/go-hclog"

	"goicpbridge/bridge"
	"goicpbridge/trackers"
)

var (
	client  *bridge.Client
	tracked *trackers.Set
	logger  hclog.Logger = hclog.NewNullLogger()
)

// Init wires the handlers to the primary bridge client and the tracker set.
// Must run before the HTTP worker starts serving.
func Init(c *bridge.Client, set *trackers.Set, l hclog.Logger) {
	client = c
	tracked = set
	logger = l.Named("handlers")
}
