package repo

import (
	"cmp"
	"context"
	"slices"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

type InMemoryReportRepository struct {
	store *MemoryStore
}

func NewInMemoryReportRepository(store *MemoryStore) *InMemoryReportRepository {
	return &InMemoryReportRepository{store: store}
}

func (r *InMemoryReportRepository) LowStock(ctx context.Context, threshold int) ([]models.LowStockItem, error) {
	items := []models.LowStockItem{}
	r.store.read(func() {
		byProduct := map[int64]int{}
		for _, s := range r.store.stocks {
			if s.Quantity < threshold {
				byProduct[s.ProductID] += s.Quantity
			}
		}
		for _, p := range r.store.products {
			if qty, ok := byProduct[p.ID]; ok {
				items = append(items, models.LowStockItem{ProductID: p.ID, ProductCode: p.Code, ProductName: p.Name, Quantity: qty})
			}
		}
	})
	slices.SortFunc(items, func(a, b models.LowStockItem) int {
		return cmp.Or(cmp.Compare(a.Quantity, b.Quantity), cmp.Compare(a.ProductID, b.ProductID))
	})
	return items, nil
}

func (r *InMemoryReportRepository) Dashboard(ctx context.Context, threshold int) (models.DashboardStats, error) {
	var m models.DashboardStats
	r.store.read(func() {
		m.TotalProducts = len(r.store.products)
		m.CategoryCount = len(r.store.categories)
		m.WarehouseCount = len(r.store.warehouses)
		low := map[int64]bool{}
		for _, s := range r.store.stocks {
			m.TotalStock += s.Quantity
			if s.Quantity < threshold {
				low[s.ProductID] = true
			}
		}
		m.LowStockCount = len(low)
	})
	return m, nil
}

func (r *InMemoryReportRepository) Discrepancies(ctx context.Context) ([]models.Discrepancy, error) {
	rows := []models.Discrepancy{}
	r.store.read(func() {
		type pair struct{ product, warehouse int64 }
		net := map[pair]int{}
		for _, t := range r.store.transactions {
			net[pair{t.ProductID, t.WarehouseID}] += t.Signed()
		}
		for _, s := range r.store.stocks {
			ledger := net[pair{s.ProductID, s.WarehouseID}]
			if ledger != s.Quantity {
				rows = append(rows, models.Discrepancy{
					ProductID:      s.ProductID,
					WarehouseID:    s.WarehouseID,
					StockQuantity:  s.Quantity,
					LedgerQuantity: ledger,
				})
			}
		}
	})
	return rows, nil
}
