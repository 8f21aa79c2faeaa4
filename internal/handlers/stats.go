package handlers

import (
	"net/http"

	"filebox/internal/logging"
)

// GetStats returns aggregate usage: record count, total stored bytes, and
// the storage volume's total/free capacity (null where unavailable).
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	usage, err := h.stats.Collect()
	if err != nil {
		logging.Error("stats collection failed: %v", err)
		writeJSONError(w, "Failed to collect stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, usage)
}
