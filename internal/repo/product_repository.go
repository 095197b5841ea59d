package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (models.Product, error)
	GetByCode(ctx context.Context, code string) (models.Product, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	List(ctx context.Context, pf ProductFilter) ([]models.ProductSummary, int, error)
}
