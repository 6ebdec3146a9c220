package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

// CommonConfig holds the dependencies shared by both services.
type CommonConfig struct {
	HealthHandler      *handler.HealthHandler
	Logger             zerolog.Logger
	Metrics            *metrics.Metrics
	MetricsHandler     http.Handler
	RateLimiter        *middleware.RateLimiter
	CORSAllowedOrigins []string
}

// AccountRouterConfig holds dependencies for the account-service router.
type AccountRouterConfig struct {
	CommonConfig

	AccountHandler        *handler.AccountHandler
	MovementHandler       *handler.MovementHandler
	ReportHandler         *handler.ReportHandler
	ReconciliationHandler *handler.ReconciliationHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
}

// ClientRouterConfig holds dependencies for the client-service router.
type ClientRouterConfig struct {
	CommonConfig

	ClientHandler *handler.ClientHandler
}

// NewAccountRouter creates the account-service HTTP router.
func NewAccountRouter(cfg AccountRouterConfig) http.Handler {
	r := newBaseRouter(cfg.CommonConfig)

	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for POST requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Patch("/{id}", cfg.AccountHandler.UpdateStatus)
			r.Delete("/{id}", cfg.AccountHandler.Delete)
			r.Get("/number/{number}", cfg.AccountHandler.GetByNumber)
			r.Get("/number/{number}/reconciliation", cfg.ReconciliationHandler.Account)
			r.Get("/client/{clientId}", cfg.AccountHandler.ListByClient)
		})

		r.Route("/movements", func(r chi.Router) {
			r.Post("/", cfg.MovementHandler.Create)
			r.Get("/{id}", cfg.MovementHandler.Get)
			r.Patch("/{id}", cfg.MovementHandler.UpdateDescription)
			r.Delete("/{id}", cfg.MovementHandler.Delete)
			r.Get("/account/{accountNumber}", cfg.MovementHandler.ListByAccount)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/client/{clientId}", cfg.ReportHandler.ByClient)
			r.Get("/persona/{personaId}", cfg.ReportHandler.ByPersona)
		})

		r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
	})

	return r
}

// NewClientRouter creates the client-service HTTP router.
func NewClientRouter(cfg ClientRouterConfig) http.Handler {
	r := newBaseRouter(cfg.CommonConfig)

	r.Route("/api/v1/clients", func(r chi.Router) {
		r.Post("/", cfg.ClientHandler.Create)
		r.Get("/", cfg.ClientHandler.List)
		r.Get("/{id}", cfg.ClientHandler.Get)
		r.Put("/{id}", cfg.ClientHandler.Update)
		r.Delete("/{id}", cfg.ClientHandler.Delete)
		r.Get("/identification/{identification}", cfg.ClientHandler.GetByIdentification)
	})

	return r
}

func newBaseRouter(cfg CommonConfig) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders: []string{"X-Request-Id", middleware.IdempotencyReplayHeader},
			MaxAge:         300,
		}))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	return r
}
