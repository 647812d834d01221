package handler

import (
	"context"

	"github.com/sociials/logs/backend/internal/service"
	"github.com/sociials/logs/shared/config"
)

// HealthChecker reports whether a dependency can serve requests.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	message service.MessageService
	health  HealthChecker
	cfg     *config.Config
}

func New(message service.MessageService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		message: message,
		health:  health,
		cfg:     cfg,
	}
}
