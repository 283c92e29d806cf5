package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ClientHandler  *handler.ClientHandler
	AccountHandler *handler.AccountHandler
	AuthHandler    *handler.AuthHandler
	HealthHandler  *handler.HealthHandler

	// Logger enables request logging when set.
	Logger *zerolog.Logger
	// TokenValidator enables bearer authentication on business routes when set.
	TokenValidator middleware.TokenValidator
	// IdempotencyStore enables Idempotency-Key handling when set.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// RateLimiter enables per-IP rate limiting when set.
	RateLimiter *middleware.RateLimiter
	// MetricsHandler serves /metrics; defaults to the Prometheus default registry.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	if cfg.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(*cfg.Logger).Wrap)
	}

	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", metricsHandler)

	r.Route("/api", func(r chi.Router) {
		// Auth routes carry credentials and are never replayed.
		r.Route("/v1/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/authenticate", cfg.AuthHandler.Authenticate)
			r.Post("/refresh-token", cfg.AuthHandler.RefreshToken)
			r.Post("/logout", cfg.AuthHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			if cfg.TokenValidator != nil {
				r.Use(middleware.AuthMiddleware(cfg.TokenValidator))
			}

			// Idempotency runs after auth so keys are scoped to the caller.
			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotencyMiddleware.Wrap)
			}

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Post("/", cfg.ClientHandler.Create)
				r.Get("/{id}", cfg.ClientHandler.Get)
				r.Post("/{id}/comptes", cfg.ClientHandler.OpenAccount)
				r.Get("/{id}/comptes", cfg.ClientHandler.ListAccounts)
			})

			// Accounts
			r.Route("/comptes/{id}", func(r chi.Router) {
				r.Get("/", cfg.AccountHandler.Get)
				r.Delete("/", cfg.AccountHandler.Close)
				r.Get("/operations", cfg.AccountHandler.ListOperations)
				r.Post("/operations", cfg.AccountHandler.Operate)
				r.Post("/operations/virements", cfg.AccountHandler.Transfer)
			})
		})
	})

	return r
}
