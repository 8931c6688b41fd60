package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

// Balance reports the token ledger balance of an account, both in minor
// units and formatted for display.
func Balance(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	if owner == "" {
		responseError(w, "owner", "No account provided", http.StatusBadRequest)
		return
	}

	ledger, err := client.TokenAPI()
	if err != nil {
		logger.Error("cannot reach token ledger", "err", err)
		responseError(w, "", "Token ledger unavailable", http.StatusBadGateway)
		return
	}

	units, err := ledger.BalanceOf(owner)
	if err != nil {
		logger.Error("cannot fetch ledger balance", "owner", owner, "err", err)
		responseError(w, "", "Token ledger unavailable", http.StatusBadGateway)
		return
	}

	responseJSON(w, &APIBalanceResponse{
		Status:  "ok",
		Units:   units.String(),
		Balance: client.DisplayAmount(units),
	}, http.StatusOK)
}
