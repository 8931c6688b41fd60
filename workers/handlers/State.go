package handlers

import (
	"net/http"
)

// State reports the bridge token descriptor and the chains the bridge can
// currently move it between. The first request after startup may block on
// the state fetch.
func State(w http.ResponseWriter, r *http.Request) {
	if _, err := client.LoadState(); err != nil {
		logger.Error("cannot load bridge state", "err", err)
		responseError(w, "", "Bridge service unavailable", http.StatusBadGateway)
		return
	}

	supported, err := client.SupportChains()
	if err != nil {
		logger.Error("cannot list supported chains", "err", err)
		responseError(w, "", "Bridge service unavailable", http.StatusBadGateway)
		return
	}

	responseJSON(w, &APIStateResponse{
		Status: "ok",
		Bridge: client.Address,
		Token:  client.Token(),
		Chains: supported,
	}, http.StatusOK)
}
