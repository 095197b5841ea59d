package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
)

// HealthHandler godoc
// @Summary Liveness and dependency check
// @Tags health
// @Produce json
// @Success 200 {object} Envelope
// @Failure 503 {object} Envelope
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, check := range healthChecks {
		if err := check(ctx); err != nil {
			logger.Warn(ctx, "health check failed", "dependency", name, "error", err)
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		_ = writeJSON(w, http.StatusServiceUnavailable, Envelope{Code: "UNAVAILABLE", Error: "dependency down", Details: map[string]any{"checks": status}})
		return
	}
	writeOK(w, r, http.StatusOK, status)
}
