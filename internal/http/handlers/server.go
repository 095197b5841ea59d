package handlers

import (
	"context"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/inventory"
	"github.com/rogerio-castellano/inventory-ledger/internal/redissvc"
	repo "github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rogerio-castellano/inventory-ledger/internal/upload"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

var (
	productRepo     repo.ProductRepository
	categoryRepo    repo.CategoryRepository
	stockRepo       repo.StockRepository
	transactionRepo repo.TransactionRepository
	reportRepo      repo.ReportRepository

	importer         *inventory.Importer
	stockOutService  *inventory.StockOutService
	authService      *auth.AuthService
	uploadStore      *upload.Store
	idempotencyStore redissvc.IdempotencyStore

	lowStockThreshold = 10
	healthChecks      = map[string]HealthCheck{}
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetCategoryRepo(r repo.CategoryRepository) {
	categoryRepo = r
}

func SetStockRepo(r repo.StockRepository) {
	stockRepo = r
}

func SetTransactionRepo(r repo.TransactionRepository) {
	transactionRepo = r
}

func SetReportRepo(r repo.ReportRepository) {
	reportRepo = r
}

func SetImporter(i *inventory.Importer) {
	importer = i
}

func SetStockOutService(s *inventory.StockOutService) {
	stockOutService = s
}

func SetAuthService(s *auth.AuthService) {
	authService = s
}

func SetUploadStore(s *upload.Store) {
	uploadStore = s
}

// SetIdempotencyStore enables Idempotency-Key handling on stock-out. nil disables it.
func SetIdempotencyStore(s redissvc.IdempotencyStore) {
	idempotencyStore = s
}

func SetLowStockThreshold(n int) {
	lowStockThreshold = n
}

func SetHealthCheck(name string, check HealthCheck) {
	healthChecks[name] = check
}
