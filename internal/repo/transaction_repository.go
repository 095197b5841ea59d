package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// TransactionRepository is the insert-only stock ledger.
type TransactionRepository interface {
	Append(ctx context.Context, t models.StockTransaction) (models.StockTransaction, error)
	ListByProduct(ctx context.Context, productID int64, tf TransactionFilter) ([]models.StockTransaction, int, error)
}
