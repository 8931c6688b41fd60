package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

// Track reports the current state of a tracker started by SubmitBridge.
// Unknown IDs are a caller error; trackers survive until the set is reset.
func Track(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if tracker, ok := tracked.Bridging(id); ok {
		resp := &APITrackResponse{
			Status:  "ok",
			State:   tracker.Status(),
			Message: tracker.Message(),
		}
		if log := tracker.Log(); log != nil {
			view := client.LogView(log)
			resp.Log = &view
		}
		responseJSON(w, resp, http.StatusOK)
		return
	}

	if tracker, ok := tracked.Transfer(id); ok {
		responseJSON(w, &APITrackResponse{
			Status:  "ok",
			State:   tracker.Status(),
			Message: tracker.Message(),
		}, http.StatusOK)
		return
	}

	responseError(w, "id", "Unknown tracker ID", http.StatusNotFound)
}
