package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/config"
	"github.com/rogerio-castellano/inventory-ledger/internal/db"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/router"
	"github.com/rogerio-castellano/inventory-ledger/internal/inventory"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
	"github.com/rogerio-castellano/inventory-ledger/internal/redissvc"
	"github.com/rogerio-castellano/inventory-ledger/internal/repo"
	"github.com/rogerio-castellano/inventory-ledger/internal/upload"
)

const devJWTSecret = "dev-secret"

// @title Inventory Ledger API
// @version 1.0
// @description Stock ledger backend: spreadsheet import, multi-warehouse stock out and an append-only transaction history.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "inventory-ledger:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	poolCfg := db.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	pool, err := db.Connect(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Infow("schema applied")
	}

	tx := repo.NewPostgresTxManager(pool)
	products := repo.NewPostgresProductRepository(tx)
	categories := repo.NewPostgresCategoryRepository(tx)
	warehouses := repo.NewPostgresWarehouseRepository(tx)
	stocks := repo.NewPostgresStockRepository(tx)
	transactions := repo.NewPostgresTransactionRepository(tx)
	users := repo.NewPostgresUserRepository(tx)

	handlers.SetHealthCheck("database", pool.Ping)

	var idempotency redissvc.IdempotencyStore
	if cfg.Redis.Enabled {
		redisService := redissvc.NewRedisService(cfg.Redis.Addr)
		defer redisService.Close()
		if err := redisService.Ping(ctx); err != nil {
			return fmt.Errorf("could not connect to Redis: %w", err)
		}
		idempotency = redissvc.NewRedisIdempotencyStore(redisService, cfg.Idempotency.TTL, cfg.Idempotency.Lease)
		handlers.SetHealthCheck("redis", redisService.Ping)
	} else {
		log.Warnw("redis disabled, idempotency keys are kept in process memory")
		idempotency = redissvc.NewMemoryIdempotencyStore(cfg.Idempotency.TTL, cfg.Idempotency.Lease)
	}

	secret := cfg.JWT.Secret
	if secret == "" {
		log.Warnw("JWT_SECRET not set, using the development secret")
		secret = devJWTSecret
	}
	tokens := auth.NewTokenIssuer(secret, cfg.JWT.TTL)

	ledger := inventory.NewLedger(tx, stocks, transactions)
	handlers.SetProductRepo(products)
	handlers.SetCategoryRepo(categories)
	handlers.SetStockRepo(stocks)
	handlers.SetTransactionRepo(transactions)
	handlers.SetReportRepo(repo.NewPostgresReportRepository(tx))
	handlers.SetImporter(inventory.NewImporter(tx, products, categories, warehouses, ledger,
		inventory.ImporterConfig{AutoCreateReferences: cfg.Import.AutoCreateReferences}))
	handlers.SetStockOutService(inventory.NewStockOutService(tx, products, stocks, ledger))
	handlers.SetAuthService(auth.NewAuthService(users, tokens))
	handlers.SetUploadStore(upload.NewStore(cfg.Import.UploadDir, cfg.Import.MaxUploadBytes))
	handlers.SetIdempotencyStore(idempotency)
	handlers.SetLowStockThreshold(cfg.Reports.LowStockThreshold)

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartVisitorCleanupLoop(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.NewRouter(router.Config{Tokens: tokens, Limiter: limiter, Logger: log}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server running", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
