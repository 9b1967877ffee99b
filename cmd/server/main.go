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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/creditledger/internal/adapter/http"
	"github.com/iho/creditledger/internal/adapter/http/handler"
	"github.com/iho/creditledger/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/creditledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/creditledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/creditledger/internal/adapter/repository/redis"
	"github.com/iho/creditledger/internal/infrastructure/config"
	"github.com/iho/creditledger/internal/infrastructure/logger"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
	"github.com/iho/creditledger/internal/infrastructure/observability"
	"github.com/iho/creditledger/internal/infrastructure/postgres"
	"github.com/iho/creditledger/internal/infrastructure/redis"
	"github.com/iho/creditledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.rateLimiter != nil {
		go a.rateLimiter.Run(ctx, time.Minute)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// app is the wired server with the resources it must release.
type app struct {
	handler     http.Handler
	pool        *pgxpool.Pool
	redisClient *goredis.Client
	rateLimiter *middleware.RateLimiter
}

// ledgerStore is the set of repositories one store driver provides.
type ledgerStore struct {
	txManager usecase.TransactionManager
	sellers   usecase.SellerRepository
	txLog     usecase.TransactionLog
	phones    usecase.PhoneNumberRepository
	retrier   usecase.Retrier // nil when the store never reports transient conflicts
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	idGen := postgresRepo.NewULIDGenerator()
	clock := usecase.SystemClock()

	store, err := a.openStore(ctx, cfg, log, idGen, clock)
	if err != nil {
		a.Close()
		return nil, err
	}

	var (
		balanceCache     usecase.BalanceCache
		idempotencyStore usecase.IdempotencyStore
	)

	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, redis.Config{
			URL:      cfg.RedisURL,
			PoolSize: cfg.RedisPoolSize,
			Timeout:  cfg.RedisTimeout,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redisClient = client
		log.Info().Msg("connected to redis")

		balanceCache = redisRepo.NewBalanceCache(client, cfg.BalanceCacheTTL)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	ledgerOpts := []usecase.LedgerOption{
		usecase.WithClock(clock),
		usecase.WithEventRecorder(observability.NewRecorder(log.With().Str("component", "ledger").Logger(), m)),
		usecase.WithTransactionTimeout(cfg.LedgerTxTimeout),
	}
	if store.retrier != nil {
		ledgerOpts = append(ledgerOpts, usecase.WithRetrier(store.retrier))
	}
	if balanceCache != nil {
		ledgerOpts = append(ledgerOpts, usecase.WithBalanceCache(balanceCache))
	}

	sellerUC := usecase.NewSellerUseCase(store.sellers, idGen, balanceCache)
	ledgerUC := usecase.NewLedgerUseCase(store.txManager, store.sellers, store.txLog, store.phones, idGen, ledgerOpts...)
	transactionUC := usecase.NewTransactionUseCase(store.sellers, store.txLog, store.phones)
	reconciliationUC := usecase.NewReconciliationUseCase(store.sellers, store.txLog)

	var checks []handler.ReadinessCheck
	if a.pool != nil {
		checks = append(checks, handler.PostgresCheck(a.pool))
	}
	if a.redisClient != nil {
		checks = append(checks, handler.RedisCheck(a.redisClient))
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SellerHandler:      handler.NewSellerHandler(sellerUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC, reconciliationUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		HealthHandler:      handler.NewHealthHandler(checks...),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        a.rateLimiter,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:             log,
	})

	return a, nil
}

func (a *app) openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, idGen usecase.IDGenerator, clock usecase.Clock) (*ledgerStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		store := memoryRepo.NewStore(idGen, clock)
		return &ledgerStore{
			txManager: store,
			sellers:   store.Sellers(),
			txLog:     store.Transactions(),
			phones:    store.PhoneNumbers(),
		}, nil

	case config.StoreDriverPostgres:
		if cfg.MigrateOnStart {
			if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
				return nil, err
			}
		}

		connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
		defer cancel()

		pool, err := postgres.NewPool(connectCtx, postgres.PoolConfig{
			DatabaseURL:      cfg.DatabaseURL,
			MaxConns:         cfg.DatabaseMaxConns,
			MinConns:         cfg.DatabaseMinConns,
			StatementTimeout: cfg.DatabaseStatementTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.pool = pool
		log.Info().Msg("connected to postgres")

		return &ledgerStore{
			txManager: postgresRepo.NewTxManager(pool, postgresRepo.WithLockTimeout(cfg.DatabaseLockTimeout)),
			sellers:   postgresRepo.NewSellerRepository(pool),
			txLog:     postgresRepo.NewTransactionLog(pool),
			phones:    postgresRepo.NewPhoneNumberRepository(pool, idGen),
			retrier:   postgresRepo.NewRetrier(log),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Close releases connections held by the app.
func (a *app) Close() {
	if a.redisClient != nil {
		a.redisClient.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
