package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"

	"goicpbridge/chains"
	"goicpbridge/config"
	"goicpbridge/trackers"
	"goicpbridge/types"
)

// principal text form: dash-separated base32 groups of five with a short
// checksum tail, e.g. mxzaz-hqaaa-aaaar-qaada-cai
var principalPattern = regexp.MustCompile(`^([a-z0-9]{5}-)+[a-z0-9]{2,5}$`)

func validPrincipal(text string) bool {
	return principalPattern.MatchString(text)
}

// validEVMAddress checks a hex address including its EIP-55 checksum when
// mixed case is used.
func validEVMAddress(text string) bool {
	if !common.IsHexAddress(text) {
		return false
	}
	return ethav.Validate(common.HexToAddress(text).Hex()) == nil
}

type BridgeRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	// optional recipient override on the destination chain
	ToAddress string `json:"toAddress"`
}

// SubmitBridge forwards a bridge request to the service and starts a
// finalization tracker for the returned origin handle. The response carries
// the tracker ID for /track polls.
func SubmitBridge(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("error reading request body", "err", err)
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req BridgeRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Warn("error unmarshalling request body", "err", err)
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	from, err := chains.Resolve(req.From)
	if err != nil {
		responseError(w, "from", "Source chain not provided or not supported", http.StatusBadRequest)
		return
	}
	to, err := chains.Resolve(req.To)
	if err != nil {
		responseError(w, "to", "Destination chain not provided or not supported", http.StatusBadRequest)
		return
	}
	if from.Name == to.Name {
		responseError(w, "to", "Source and destination chain must differ", http.StatusBadRequest)
		return
	}

	if req.ToAddress != "" {
		if to.Name == "ICP" {
			if !validPrincipal(req.ToAddress) {
				responseError(w, "toAddress", "No ICP principal or invalid principal provided", http.StatusBadRequest)
				return
			}
		} else if !validEVMAddress(req.ToAddress) {
			logger.Warn("invalid destination address", "addr", req.ToAddress)
			responseError(w, "toAddress", "No ethereum address or invalid address provided", http.StatusBadRequest)
			return
		}
	}

	units, err := client.ParseAmount(req.Amount)
	if err != nil {
		responseError(w, "amount", "Cannot parse amount", http.StatusBadRequest)
		return
	}

	tx, err := client.Bridge(from.Name, to.Name, units, req.ToAddress)
	if err != nil {
		var remote *types.RemoteError
		if errors.As(err, &remote) {
			// service rejections carry a user-facing message; pass it through
			responseError(w, "", remote.Message, http.StatusBadRequest)
			return
		}
		logger.Error("bridge submission failed", "err", err)
		responseError(w, "", "Bridge service unavailable", http.StatusBadGateway)
		return
	}

	tracker := trackers.TrackFinalization(client, tx, config.PollInterval(), logger)
	id := tracked.AddBridging(tracker)

	logger.Info("bridge request submitted", "from", from.Name, "to", to.Name, "tx", tx.Ref(), "tracker", id)

	responseJSON(w, &APISubmitResponse{
		Status: "ok",
		ID:     id,
		Tx:     tx.Ref(),
	}, http.StatusOK)
}
