package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
)

var fixedNow = time.Date(2025, time.November, 17, 15, 4, 5, 0, time.UTC)

type fixture struct {
	store        *repo.MemoryStore
	products     *repo.InMemoryProductRepository
	categories   *repo.InMemoryCategoryRepository
	warehouses   *repo.InMemoryWarehouseRepository
	stocks       *repo.InMemoryStockRepository
	transactions *repo.InMemoryTransactionRepository
	reports      *repo.InMemoryReportRepository
	ledger       *Ledger
	importer     *Importer
	stockOut     *StockOutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repo.NewMemoryStore()
	store.SetClock(func() time.Time { return fixedNow })

	f := &fixture{
		store:        store,
		products:     repo.NewInMemoryProductRepository(store),
		categories:   repo.NewInMemoryCategoryRepository(store),
		warehouses:   repo.NewInMemoryWarehouseRepository(store),
		stocks:       repo.NewInMemoryStockRepository(store),
		transactions: repo.NewInMemoryTransactionRepository(store),
		reports:      repo.NewInMemoryReportRepository(store),
	}
	f.ledger = NewLedger(store, f.stocks, f.transactions)
	f.importer = NewImporter(store, f.products, f.categories, f.warehouses, f.ledger, ImporterConfig{AutoCreateReferences: true})
	f.importer.now = func() time.Time { return fixedNow }
	f.stockOut = NewStockOutService(store, f.products, f.stocks, f.ledger)
	return f
}

func (f *fixture) product(t *testing.T, code string) models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), models.Product{Code: code, Name: "Product " + code, Cost: decimal.NewFromInt(1)})
	require.NoError(t, err)
	return p
}

func (f *fixture) warehouse(t *testing.T, name string) int64 {
	t.Helper()
	id, err := f.warehouses.CreateNamed(context.Background(), name)
	require.NoError(t, err)
	return id
}

// receive books an IN movement directly through the ledger.
func (f *fixture) receive(t *testing.T, productID, warehouseID int64, qty int) {
	t.Helper()
	_, err := f.ledger.ApplyMovement(context.Background(), Movement{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Type:        models.TransactionIn,
		Quantity:    qty,
		Date:        dateOnly(fixedNow),
		Source:      models.SourceExcel,
	})
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, productID, warehouseID int64) int {
	t.Helper()
	qty, ok := f.stocks.Quantity(productID, warehouseID)
	require.True(t, ok, "no stock row for product %d in warehouse %d", productID, warehouseID)
	return qty
}

func (f *fixture) requireConsistentLedger(t *testing.T) {
	t.Helper()
	discrepancies, err := f.reports.Discrepancies(context.Background())
	require.NoError(t, err)
	require.Empty(t, discrepancies)
}
