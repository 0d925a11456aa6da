package server

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/code-critic/internal/config"
	"github.com/sevigo/code-critic/internal/core"
	"github.com/sevigo/code-critic/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(cfg *config.Config, svc core.ReviewService, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Minute))

	limiter := NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	reviewHandler := handler.NewReviewHandler(svc, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", reviewHandler.Health)

		// Only the submission endpoint is throttled; reads are cheap.
		r.With(limiter.Handler).Post("/review", reviewHandler.Create)

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.List)
			r.Get("/{id}", reviewHandler.Get)
			r.Delete("/{id}", reviewHandler.Delete)
		})
	})

	return r
}
