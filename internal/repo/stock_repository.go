package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// StockRepository manages the current-quantity projection. The Lock methods
// must run inside a unit of work; their locks are held until it ends.
type StockRepository interface {
	// LockOrCreate locks the row for the pair, inserting it with quantity
	// zero first if it does not exist. created reports the insert.
	LockOrCreate(ctx context.Context, productID, warehouseID int64) (stock models.Stock, created bool, err error)
	// LockForProduct locks the existing rows of productID in the given
	// warehouses, keyed by warehouse id. Missing pairs are absent from the map.
	LockForProduct(ctx context.Context, productID int64, warehouseIDs []int64) (map[int64]models.Stock, error)
	SetQuantity(ctx context.Context, stockID int64, quantity int) (models.Stock, error)
	ListByProduct(ctx context.Context, productID int64) ([]models.WarehouseStock, error)
}
