package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sociials/logs/shared/logger"
)

// Health answers liveness checks.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready answers readiness checks.
// Returns 503 Service Unavailable if the cache store does not answer.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.health != nil {
		if err := h.health.Ping(ctx); err != nil {
			logger.FromContext(ctx).Warn("readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("cache unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
