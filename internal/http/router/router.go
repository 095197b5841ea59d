package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/inventory-ledger/docs"
	"github.com/rogerio-castellano/inventory-ledger/internal/auth"
	"github.com/rogerio-castellano/inventory-ledger/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-ledger/internal/http/middleware"
	rl "github.com/rogerio-castellano/inventory-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-ledger/internal/logger"
)

type Config struct {
	Tokens  *auth.TokenIssuer
	Limiter *rl.Limiter
	Logger  *logger.Logger
}

func NewRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(cfg.Limiter))
		r.Post("/register", handlers.RegisterHandler)
		r.Post("/login", handlers.LoginHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Tokens))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.GetProductsHandler)
			r.With(mw.RateLimit(cfg.Limiter)).Post("/upload", handlers.UploadProductsHandler)
			r.Get("/{id}", handlers.GetProductByIDHandler)
			r.Get("/{id}/transactions", handlers.GetTransactionsHandler)
			r.Get("/{id}/transactions/export", handlers.ExportTransactionsHandler)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/product/{productId}/warehouses", handlers.GetWarehousesForProductHandler)
			r.Post("/out", handlers.StockOutHandler)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/low-stock", handlers.GetLowStockHandler)
			r.Get("/dashboard", handlers.GetDashboardHandler)
			r.Get("/reconciliation", handlers.GetReconciliationHandler)
		})
	})

	return r
}
