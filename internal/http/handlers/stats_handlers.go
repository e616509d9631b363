package handlers

import "net/http"

// GetDashboardStatsHandler godoc
// @Summary Dashboard counters for the admin view
// @Tags stats
// @Produce json
// @Success 200 {object} stats.Dashboard
// @Router /api/stats [get]
func (h *Handler) GetDashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.stats.Dashboard(r.Context()))
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, HealthResponse{Status: "ok"})
}
