package handlers

import (
	"fmt"
	"net/http"
)

// GetLowStockHandler godoc
// @Summary Products with stock rows below the low stock threshold
// @Tags reports
// @Produce json
// @Success 200 {object} Envelope{data=LowStockResult}
// @Failure 500 {object} Envelope "Internal error"
// @Router /reports/low-stock [get]
// @Security BearerAuth
func GetLowStockHandler(w http.ResponseWriter, r *http.Request) {
	items, err := reportRepo.LowStock(r.Context(), lowStockThreshold)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to fetch low stock: %w", err))
		return
	}
	writeOK(w, r, http.StatusOK, LowStockResult{Threshold: lowStockThreshold, Items: items})
}

// GetDashboardHandler godoc
// @Summary Dashboard summary
// @Tags reports
// @Produce json
// @Success 200 {object} Envelope{data=models.DashboardStats}
// @Failure 500 {object} Envelope "Internal error"
// @Router /reports/dashboard [get]
// @Security BearerAuth
func GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	m, err := reportRepo.Dashboard(r.Context(), lowStockThreshold)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to fetch metrics: %w", err))
		return
	}
	writeOK(w, r, http.StatusOK, m)
}

// GetReconciliationHandler godoc
// @Summary Stock rows that disagree with the ledger
// @Description Read only. Lists product/warehouse pairs whose quantity differs from the sum of IN minus OUT entries.
// @Tags reports
// @Produce json
// @Success 200 {object} Envelope{data=ReconciliationResult}
// @Failure 500 {object} Envelope "Internal error"
// @Router /reports/reconciliation [get]
// @Security BearerAuth
func GetReconciliationHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := reportRepo.Discrepancies(r.Context())
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to reconcile: %w", err))
		return
	}
	writeOK(w, r, http.StatusOK, ReconciliationResult{Consistent: len(rows) == 0, Discrepancies: rows})
}
