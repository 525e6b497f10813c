package handlers

import (
	"net/http"
)

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.healthChecker.PingContext(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
