package repo

import (
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// TransactionFilter narrows a product's ledger. Since and Until bound the
// transaction date inclusively. A Limit of zero returns only the total.
type TransactionFilter struct {
	WarehouseID *int64
	Type        *models.TransactionType
	Since       *time.Time
	Until       *time.Time
	Offset      *int
	Limit       *int
}
