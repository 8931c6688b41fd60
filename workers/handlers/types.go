package handlers

import (
	"goicpbridge/bridge"
	"goicpbridge/chains"
	"goicpbridge/types"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

type APIStateResponse struct {
	Status string           `json:"status"`
	Bridge string           `json:"bridge"`
	Token  *types.TokenInfo `json:"token"`
	Chains []chains.Chain   `json:"chains"`
}

type APILogsResponse struct {
	Status string           `json:"status"`
	Logs   []bridge.LogView `json:"logs"`
}

type APISubmitResponse struct {
	Status string `json:"status"`
	// tracker reference for later /track polls
	ID string `json:"id"`
	// origin-leg transaction reference assigned by the service
	Tx string `json:"tx"`
}

type APIBalanceResponse struct {
	Status  string `json:"status"`
	Units   string `json:"units"`
	Balance string `json:"balance"`
}

type APITrackResponse struct {
	Status  string               `json:"status"`
	State   types.BridgingStatus `json:"state"`
	Message string               `json:"message,omitempty"`
	Log     *bridge.LogView      `json:"log,omitempty"`
}
