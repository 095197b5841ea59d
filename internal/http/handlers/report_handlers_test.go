package handlers_test

import (
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

func TestReports(t *testing.T) {
	env := setupTestEnv(t)
	products, _ := env.seed(t)

	w := env.get("/reports/low-stock")
	expectStatus(t, w, http.StatusOK)
	var low handler.LowStockResult
	decodeEnvelope(t, w, &low)
	if low.Threshold != 10 || len(low.Items) != 1 || low.Items[0].ProductID != products["SAW-1"] {
		t.Errorf("unexpected low stock report: %+v", low)
	}

	w = env.get("/reports/dashboard")
	expectStatus(t, w, http.StatusOK)
	var stats models.DashboardStats
	decodeEnvelope(t, w, &stats)
	want := models.DashboardStats{TotalProducts: 2, TotalStock: 13, LowStockCount: 1, CategoryCount: 1, WarehouseCount: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}

	w = env.get("/reports/reconciliation")
	expectStatus(t, w, http.StatusOK)
	var rec handler.ReconciliationResult
	decodeEnvelope(t, w, &rec)
	if !rec.Consistent || len(rec.Discrepancies) != 0 {
		t.Errorf("expected a consistent ledger, got %+v", rec)
	}
}
