package repo

import (
	"context"
	"slices"
	"strings"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// InMemoryStockRepository relies on MemoryStore serializing units of work,
// so the Lock methods only read.
type InMemoryStockRepository struct {
	store *MemoryStore
}

func NewInMemoryStockRepository(store *MemoryStore) *InMemoryStockRepository {
	return &InMemoryStockRepository{store: store}
}

func (r *InMemoryStockRepository) LockOrCreate(ctx context.Context, productID, warehouseID int64) (models.Stock, bool, error) {
	var (
		stock   models.Stock
		created bool
	)
	r.store.write(ctx, func() {
		i := slices.IndexFunc(r.store.stocks, func(s models.Stock) bool {
			return s.ProductID == productID && s.WarehouseID == warehouseID
		})
		if i >= 0 {
			stock = r.store.stocks[i]
			return
		}
		now := r.store.now()
		stock = models.Stock{
			ID:          nextID(r.store.stocks, func(s models.Stock) int64 { return s.ID }),
			ProductID:   productID,
			WarehouseID: warehouseID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		r.store.stocks = append(r.store.stocks, stock)
		created = true
	})
	return stock, created, nil
}

func (r *InMemoryStockRepository) LockForProduct(ctx context.Context, productID int64, warehouseIDs []int64) (map[int64]models.Stock, error) {
	locked := make(map[int64]models.Stock, len(warehouseIDs))
	r.store.read(func() {
		for _, s := range r.store.stocks {
			if s.ProductID == productID && slices.Contains(warehouseIDs, s.WarehouseID) {
				locked[s.WarehouseID] = s
			}
		}
	})
	return locked, nil
}

func (r *InMemoryStockRepository) SetQuantity(ctx context.Context, stockID int64, quantity int) (models.Stock, error) {
	var (
		stock models.Stock
		err   error
	)
	r.store.write(ctx, func() {
		i := slices.IndexFunc(r.store.stocks, func(s models.Stock) bool { return s.ID == stockID })
		if i < 0 {
			err = ErrStockNotFound
			return
		}
		r.store.stocks[i].Quantity = quantity
		r.store.stocks[i].UpdatedAt = r.store.now()
		stock = r.store.stocks[i]
	})
	return stock, err
}

func (r *InMemoryStockRepository) ListByProduct(ctx context.Context, productID int64) ([]models.WarehouseStock, error) {
	rows := []models.WarehouseStock{}
	r.store.read(func() {
		for _, s := range r.store.stocks {
			if s.ProductID != productID {
				continue
			}
			ws := models.WarehouseStock{WarehouseID: s.WarehouseID, AvailableQuantity: s.Quantity, WarehouseName: "Unknown"}
			if i := slices.IndexFunc(r.store.warehouses, func(w models.Warehouse) bool { return w.ID == s.WarehouseID }); i >= 0 {
				ws.WarehouseName = r.store.warehouses[i].Name
				ws.Location = r.store.warehouses[i].Location
			}
			rows = append(rows, ws)
		}
	})
	slices.SortFunc(rows, func(a, b models.WarehouseStock) int { return strings.Compare(a.WarehouseName, b.WarehouseName) })
	return rows, nil
}

// Quantity returns the current quantity of the pair, or false if no row exists.
func (r *InMemoryStockRepository) Quantity(productID, warehouseID int64) (int, bool) {
	var (
		qty int
		ok  bool
	)
	r.store.read(func() {
		for _, s := range r.store.stocks {
			if s.ProductID == productID && s.WarehouseID == warehouseID {
				qty, ok = s.Quantity, true
				return
			}
		}
	})
	return qty, ok
}
