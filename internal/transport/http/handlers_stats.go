package httptransport

import "net/http"

// handleStatistics recomputes the projection on every call; results are
// never cached across mutations.
func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	statistics, err := h.stats.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statistics)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
