package repo

import (
	"cmp"
	"context"
	"slices"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemoryTransactionRepository struct {
	store *MemoryStore
}

func NewInMemoryTransactionRepository(store *MemoryStore) *InMemoryTransactionRepository {
	return &InMemoryTransactionRepository{store: store}
}

func (r *InMemoryTransactionRepository) Append(ctx context.Context, t models.StockTransaction) (models.StockTransaction, error) {
	r.store.write(ctx, func() {
		t.ID = nextID(r.store.transactions, func(e models.StockTransaction) int64 { return e.ID })
		t.CreatedAt = r.store.now()
		r.store.transactions = append(r.store.transactions, t)
	})
	return t, nil
}

// ListByProduct returns the ledger of one product, newest first, optionally filtered and paginated
func (r *InMemoryTransactionRepository) ListByProduct(ctx context.Context, productID int64, tf TransactionFilter) ([]models.StockTransaction, int, error) {
	filtered := []models.StockTransaction{}
	r.store.read(func() {
		for _, t := range r.store.transactions {
			if t.ProductID != productID ||
				(tf.WarehouseID != nil && t.WarehouseID != *tf.WarehouseID) ||
				(tf.Type != nil && t.Type != *tf.Type) ||
				(tf.Since != nil && t.TransactionDate.Before(*tf.Since)) ||
				(tf.Until != nil && t.TransactionDate.After(*tf.Until)) {
				continue
			}
			filtered = append(filtered, t)
		}
	})

	slices.SortStableFunc(filtered, func(a, b models.StockTransaction) int {
		return cmp.Or(b.TransactionDate.Compare(a.TransactionDate), cmp.Compare(b.ID, a.ID))
	})

	if tf.Limit != nil && *tf.Limit == 0 {
		return []models.StockTransaction{}, len(filtered), nil
	}

	start := 0
	if tf.Offset != nil {
		start = clamp(*tf.Offset, 0, len(filtered))
	}

	limit := defaultLimit
	if tf.Limit != nil && *tf.Limit > 0 {
		limit = min(*tf.Limit, defaultLimit)
	}
	end := clamp(start+limit, start, len(filtered))

	return filtered[start:end], len(filtered), nil
}

// All returns every ledger entry in insertion order.
func (r *InMemoryTransactionRepository) All() []models.StockTransaction {
	var out []models.StockTransaction
	r.store.read(func() {
		out = slices.Clone(r.store.transactions)
	})
	return out
}
