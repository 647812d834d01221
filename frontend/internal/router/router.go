package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sociials/logs/frontend/internal/setup"
	mw "github.com/sociials/logs/shared/middleware"
	"github.com/sociials/logs/shared/middleware/metrics"
)

// New creates the page router.
func New(deps *setup.Dependencies) http.Handler {
	cfg := deps.Public
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(mw.RequestID)
	r.Use(metrics.Middleware("/", "tab"))
	r.Use(chimw.Compress(5))
	r.Use(mw.SecurityHeadersWithCSP(cfg.HTTPS, mw.PageCSP))

	h := deps.Handler
	r.Get("/health", h.Health)
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticPath))))
	r.Get("/", h.IndexGetHandler)

	return r
}
