package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/adapter/http/handler"
	"github.com/iho/creditledger/internal/adapter/http/middleware"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
	"github.com/iho/creditledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SellerHandler      *handler.SellerHandler
	LedgerHandler      *handler.LedgerHandler
	TransactionHandler *handler.TransactionHandler
	HealthHandler      *handler.HealthHandler

	// Optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.Recovery(cfg.Logger))

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger, cfg.Metrics)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Sellers
		r.Route("/sellers", func(r chi.Router) {
			r.Post("/", cfg.SellerHandler.Create)
			r.Get("/", cfg.SellerHandler.List)
			r.Get("/{id}", cfg.SellerHandler.Get)
			r.Get("/{id}/balance", cfg.SellerHandler.Balance)
			r.Post("/{id}/credit", cfg.LedgerHandler.IncreaseCredit)
			r.Post("/{id}/charges", cfg.LedgerHandler.SellCharge)
			r.Get("/{id}/credit-transactions", cfg.TransactionHandler.ListSellerCredits)
			r.Get("/{id}/charge-transactions", cfg.TransactionHandler.ListSellerCharges)
			r.Get("/{id}/reconciliation", cfg.LedgerHandler.Reconcile)
		})

		r.Get("/credit-transactions", cfg.TransactionHandler.ListCredits)
		r.Get("/charge-transactions", cfg.TransactionHandler.ListCharges)
		r.Get("/phone-numbers", cfg.TransactionHandler.ListPhoneNumbers)
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
