package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// ReferenceRepository is the lookup table behind a name resolver.
// Names returns every row as id -> stored name.
type ReferenceRepository interface {
	Names(ctx context.Context) (map[int64]string, error)
	CreateNamed(ctx context.Context, name string) (int64, error)
}

type CategoryRepository interface {
	ReferenceRepository
	List(ctx context.Context) ([]models.Category, error)
}

type WarehouseRepository interface {
	ReferenceRepository
	List(ctx context.Context) ([]models.Warehouse, error)
}
