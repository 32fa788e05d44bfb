package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/fxdesk/cashdesk/internal/adapter/http"
	"github.com/fxdesk/cashdesk/internal/adapter/http/handler"
	"github.com/fxdesk/cashdesk/internal/adapter/http/middleware"
	postgresRepo "github.com/fxdesk/cashdesk/internal/adapter/repository/postgres"
	redisRepo "github.com/fxdesk/cashdesk/internal/adapter/repository/redis"
	"github.com/fxdesk/cashdesk/internal/infrastructure/auth"
	"github.com/fxdesk/cashdesk/internal/infrastructure/config"
	"github.com/fxdesk/cashdesk/internal/infrastructure/logger"
	"github.com/fxdesk/cashdesk/internal/infrastructure/metrics"
	"github.com/fxdesk/cashdesk/internal/infrastructure/postgres"
	"github.com/fxdesk/cashdesk/internal/infrastructure/redis"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	drawerRepo := postgresRepo.NewDrawerRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	shiftRepo := postgresRepo.NewShiftRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	reconciliationRepo := postgresRepo.NewReconciliationRepository(pool)
	currencyRepo := postgresRepo.NewCurrencyRepository(pool)
	employeeRepo := postgresRepo.NewEmployeeRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize use cases
	projectionUC := usecase.NewProjectionUseCase(shiftRepo, transactionRepo, ledgerRepo, cache)
	ledgerUC := usecase.NewLedgerUseCase(txManager, drawerRepo, ledgerRepo, currencyRepo, auditRepo, idGen, retrier, projectionUC, m)
	reconciliationUC := usecase.NewReconciliationUseCase(txManager, drawerRepo, reconciliationRepo, ledgerUC, auditRepo, idGen, m)
	shiftUC := usecase.NewShiftUseCase(txManager, shiftRepo, drawerRepo, currencyRepo, employeeRepo, transactionRepo, reconciliationRepo, projectionUC, auditRepo, idGen, m)

	// Initialize handlers
	shiftHandler := handler.NewShiftHandler(shiftUC, reconciliationUC)
	drawerHandler := handler.NewDrawerHandler(ledgerUC, reconciliationUC)
	currencyHandler := handler.NewCurrencyHandler(currencyRepo)
	authHandler := handler.NewAuthHandler(employeeRepo, auditRepo, jwtManager)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ShiftHandler:     shiftHandler,
		DrawerHandler:    drawerHandler,
		CurrencyHandler:  currencyHandler,
		AuthHandler:      authHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		LoginLimiter:     middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
