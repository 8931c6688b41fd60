package handlers

import (
	"net/http"
	"strconv"

	"goicpbridge/config"
	"goicpbridge/types"
)

// pageParams reads the take/prev query parameters for finalized-log pages.
// take defaults to the configured page size and is capped the same way the
// service caps it.
func pageParams(r *http.Request) (uint64, *uint64) {
	take := config.PageSize()
	if raw := r.URL.Query().Get("take"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil && n > 0 {
			take = n
		}
	}
	if take > config.MaxLogPageSize {
		take = config.MaxLogPageSize
	}

	var prev *uint64
	if raw := r.URL.Query().Get("prev"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			prev = &n
		}
	}
	return take, prev
}

func respondLogs(w http.ResponseWriter, logs []types.BridgeLog, err error) {
	if err != nil {
		logger.Error("cannot fetch bridge logs", "err", err)
		responseError(w, "", "Bridge service unavailable", http.StatusBadGateway)
		return
	}
	responseJSON(w, &APILogsResponse{
		Status: "ok",
		Logs:   client.LogViews(logs),
	}, http.StatusOK)
}

func GetPendingLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := client.PendingLogs()
	respondLogs(w, logs, err)
}

func GetFinalizedLogs(w http.ResponseWriter, r *http.Request) {
	take, prev := pageParams(r)
	logs, err := client.FinalizedLogs(take, prev)
	respondLogs(w, logs, err)
}

func GetMyPendingLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := client.MyPendingLogs()
	respondLogs(w, logs, err)
}

func GetMyFinalizedLogs(w http.ResponseWriter, r *http.Request) {
	take, prev := pageParams(r)
	logs, err := client.MyFinalizedLogs(take, prev)
	respondLogs(w, logs, err)
}
