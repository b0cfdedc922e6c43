// Package router wires Notir's HTTP surface: WebSocket subscribe
// endpoints, publish endpoints, the subscriber-count/health/version
// endpoints, and the bundled static UI, behind a chi middleware
// pipeline.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"notir/internal/api/handlers"
	notir_middleware "notir/internal/api/middleware"
	"notir/internal/assets"
)

// Config defines the dependencies required to build the routing tree.
type Config struct {
	AllowedOrigins     []string
	StaticDir          string
	SubscribeHandler   *handlers.SubscribeHandler
	PublishHandler     *handlers.PublishHandler
	ConnectionsHandler *handlers.ConnectionsHandler
	Limiter            *notir_middleware.Limiter
	Logger             *slog.Logger
}

// New constructs the Chi multiplexer, attaches global middleware, and
// wires every endpoint in the routing table.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// =========================================================================
	// Global middleware pipeline
	// =========================================================================

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(notir_middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Limit all incoming publish bodies to 1 Megabyte max.
	r.Use(notir_middleware.MaxBytes(1_048_576))

	// In-memory per-IP token bucket rate limiting.
	r.Use(cfg.Limiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// =========================================================================
	// Notification hub routes
	// =========================================================================

	r.Get("/single/sub", cfg.SubscribeHandler.Single)
	r.Post("/single/pub", cfg.PublishHandler.Single)
	r.Get("/broad/sub", cfg.SubscribeHandler.Broadcast)
	r.Post("/broad/pub", cfg.PublishHandler.Broadcast)
	r.Get("/single/connections", cfg.ConnectionsHandler.Count)

	r.Get("/health", handlers.Health)
	r.Get("/version", handlers.VersionHandler)

	// Bundled frontend, fallback for everything else.
	r.Get("/*", assets.Handler(cfg.StaticDir).ServeHTTP)

	return r
}
