package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sociials/logs/backend/internal/setup"
	mw "github.com/sociials/logs/shared/middleware"
	"github.com/sociials/logs/shared/middleware/metrics"
)

// limiterExpiration is how long an idle client keeps its token bucket.
const limiterExpiration = 10 * time.Minute

// New creates the API router.
func New(deps *setup.Dependencies) http.Handler {
	cfg := deps.Config.Public.Backend
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(mw.RequestID)
	r.Use(metrics.Middleware("/api/messages", "type"))
	r.Use(chimw.Compress(5))

	// setup CORS for frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader},
		MaxAge:         300,
	}))

	// Backend CSP: JSON API only, no scripts/styles needed
	r.Use(mw.SecurityHeadersWithCSP(cfg.HTTPS, mw.APICSP))

	h := deps.Handler
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			r.Use(mw.RateLimit(mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, limiterExpiration), mw.GetIP))
		}
		r.Get("/api/messages", h.GetMessages)
	})

	return r
}
