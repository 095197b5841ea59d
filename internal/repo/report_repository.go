package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type ReportRepository interface {
	// LowStock returns products with at least one stock row below threshold,
	// with quantities summed over all of the product's warehouses.
	LowStock(ctx context.Context, threshold int) ([]models.LowStockItem, error)
	Dashboard(ctx context.Context, threshold int) (models.DashboardStats, error)
	// Discrepancies lists pairs whose quantity differs from the ledger's IN minus OUT.
	Discrepancies(ctx context.Context) ([]models.Discrepancy, error)
}
