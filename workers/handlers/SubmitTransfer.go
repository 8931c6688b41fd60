package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"goicpbridge/chains"
	"goicpbridge/config"
	"goicpbridge/trackers"
	"goicpbridge/types"
)

type TransferRequest struct {
	Chain     string `json:"chain"`
	ToAddress string `json:"toAddress"`
	Amount    string `json:"amount"`
	// "erc20" (default) moves the bridged token, "native" the chain's coin
	Kind string `json:"kind,omitempty"`
}

// SubmitTransfer executes a direct, non-bridged transfer. Ledger transfers
// settle synchronously on the ICP side; for EVM chains the service builds
// and signs the transaction, which is broadcast here and then tracked until
// a receipt shows up.
func SubmitTransfer(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("error reading request body", "err", err)
		responseError(w, "", "Error reading request body", http.StatusBadRequest)
		return
	}

	var req TransferRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Warn("error unmarshalling request body", "err", err)
		responseError(w, "", "Cannot unmarshal input JSON", http.StatusBadRequest)
		return
	}

	chain, err := chains.Resolve(req.Chain)
	if err != nil {
		responseError(w, "chain", "Chain not provided or not supported", http.StatusBadRequest)
		return
	}

	if chain.Name == "ICP" {
		submitLedgerTransfer(w, req)
		return
	}
	submitEVMTransfer(w, r, chain.Name, req)
}

func submitLedgerTransfer(w http.ResponseWriter, req TransferRequest) {
	if !validPrincipal(req.ToAddress) {
		responseError(w, "toAddress", "No ICP principal or invalid principal provided", http.StatusBadRequest)
		return
	}
	units, err := client.ParseAmount(req.Amount)
	if err != nil {
		responseError(w, "amount", "Cannot parse amount", http.StatusBadRequest)
		return
	}

	ledger, err := client.TokenAPI()
	if err != nil {
		logger.Error("cannot reach token ledger", "err", err)
		responseError(w, "", "Token ledger unavailable", http.StatusBadGateway)
		return
	}

	index, err := ledger.Transfer(req.ToAddress, units)
	if err != nil {
		var remote *types.RemoteError
		if errors.As(err, &remote) {
			responseError(w, "", remote.Message, http.StatusBadRequest)
			return
		}
		logger.Error("ledger transfer failed", "err", err)
		responseError(w, "", "Token ledger unavailable", http.StatusBadGateway)
		return
	}

	// the ledger settles synchronously, the tracker is complete on arrival
	tx := types.NewICPTx(true, index)
	tracker := trackers.TrackTransfer(client, "ICP", tx, config.PollInterval(), logger)
	id := tracked.AddTransfer(tracker)

	logger.Info("ledger transfer settled", "to", req.ToAddress, "index", index, "tracker", id)

	responseJSON(w, &APISubmitResponse{
		Status: "ok",
		ID:     id,
		Tx:     tx.Ref(),
	}, http.StatusOK)
}

func submitEVMTransfer(w http.ResponseWriter, r *http.Request, chain string, req TransferRequest) {
	if !validEVMAddress(req.ToAddress) {
		responseError(w, "toAddress", "No ethereum address or invalid address provided", http.StatusBadRequest)
		return
	}

	var units *big.Int
	var signed string
	var err error
	if req.Kind == "native" {
		if units, err = client.ParseNativeAmount(chain, req.Amount); err == nil {
			signed, err = client.EVMTransferTx(chain, req.ToAddress, units)
		}
	} else {
		if units, err = client.ParseAmount(req.Amount); err == nil {
			signed, err = client.ERC20TransferTx(chain, req.ToAddress, units)
		}
	}
	if err != nil {
		if units == nil {
			responseError(w, "amount", "Cannot parse amount", http.StatusBadRequest)
			return
		}
		var remote *types.RemoteError
		if errors.As(err, &remote) {
			responseError(w, "", remote.Message, http.StatusBadRequest)
			return
		}
		logger.Error("cannot build transfer transaction", "chain", chain, "err", err)
		responseError(w, "", "Bridge service unavailable", http.StatusBadGateway)
		return
	}

	raw, err := hexutil.Decode(signed)
	if err != nil {
		logger.Error("service returned malformed signed transaction", "chain", chain, "err", err)
		responseError(w, "", "Bridge service returned a malformed transaction", http.StatusBadGateway)
		return
	}

	conn, err := client.ChainAPI(r.Context(), chain)
	if err != nil {
		logger.Error("cannot resolve chain connection", "chain", chain, "err", err)
		responseError(w, "", "Chain connection unavailable", http.StatusBadGateway)
		return
	}

	hash, err := conn.SendRawTransaction(r.Context(), raw)
	if err != nil {
		logger.Error("broadcast failed", "chain", chain, "err", err)
		responseError(w, "", "Broadcast failed", http.StatusBadGateway)
		return
	}

	tx := types.NewEVMTx(false, hash.Bytes())
	tracker := trackers.TrackTransfer(client, chain, tx, config.PollInterval(), logger)
	id := tracked.AddTransfer(tracker)

	logger.Info("transfer broadcast", "chain", chain, "tx", tx.Ref(), "tracker", id)

	responseJSON(w, &APISubmitResponse{
		Status: "ok",
		ID:     id,
		Tx:     tx.Ref(),
	}, http.StatusOK)
}
