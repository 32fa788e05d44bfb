package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fxdesk/cashdesk/internal/adapter/http/handler"
	"github.com/fxdesk/cashdesk/internal/adapter/http/middleware"
	"github.com/fxdesk/cashdesk/internal/infrastructure/auth"
	"github.com/fxdesk/cashdesk/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ShiftHandler     *handler.ShiftHandler
	DrawerHandler    *handler.DrawerHandler
	CurrencyHandler  *handler.CurrencyHandler
	AuthHandler      *handler.AuthHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	LoginLimiter     *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Login is the only unauthenticated endpoint.
		r.Group(func(r chi.Router) {
			if cfg.LoginLimiter != nil {
				r.Use(cfg.LoginLimiter.Limit)
			}
			r.Post("/auth/login", cfg.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			// Shifts
			r.Route("/shifts", func(r chi.Router) {
				r.Post("/", cfg.ShiftHandler.Start)
				r.Get("/active", cfg.ShiftHandler.GetActive)
				r.Get("/{id}", cfg.ShiftHandler.Get)
				r.Post("/{id}/end", cfg.ShiftHandler.End)
				r.Post("/{id}/handover", cfg.ShiftHandler.Handover)
				r.With(middleware.RequireAdmin).Post("/{id}/abandon", cfg.ShiftHandler.Abandon)
				r.Get("/{id}/summary", cfg.ShiftHandler.GetSummary)
				r.Get("/{id}/expected", cfg.ShiftHandler.GetExpected)
				r.Get("/{id}/reconciliations", cfg.ShiftHandler.ListReconciliations)
			})

			// Drawers
			r.Route("/drawers", func(r chi.Router) {
				r.Get("/", cfg.DrawerHandler.List)
				r.Get("/{id}", cfg.DrawerHandler.Get)
				r.Get("/{id}/balances", cfg.DrawerHandler.GetBalances)
				r.Post("/{id}/deposit", cfg.DrawerHandler.Deposit)
				r.Post("/{id}/withdraw", cfg.DrawerHandler.Withdraw)
				r.With(middleware.RequireAdmin).Post("/{id}/adjust", cfg.DrawerHandler.Adjust)
				r.Post("/{id}/reconcile", cfg.DrawerHandler.Reconcile)
				r.Get("/{id}/entries", cfg.DrawerHandler.ListEntries)
				r.Get("/{id}/reconciliations", cfg.DrawerHandler.ListReconciliations)
				r.Get("/{id}/verify", cfg.DrawerHandler.Verify)
			})

			// Currencies
			r.Route("/currencies", func(r chi.Router) {
				r.Get("/", cfg.CurrencyHandler.List)
				r.Get("/{id}", cfg.CurrencyHandler.Get)
			})
		})
	})

	return r
}
