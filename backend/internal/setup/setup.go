package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/sociials/logs/backend/internal/cache"
	"github.com/sociials/logs/backend/internal/discord"
	"github.com/sociials/logs/backend/internal/handler"
	"github.com/sociials/logs/backend/internal/service"
	"github.com/sociials/logs/shared/config"
	"github.com/sociials/logs/shared/logger"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Cache   cache.Store
	Handler *handler.Handler
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	backend := cfg.Public.Backend

	client, err := discord.New(backend.DiscordAPIURL, cfg.BotToken(), nil, backend.RequestTimeout)
	if err != nil {
		return nil, err
	}

	store, err := newStore(ctx, backend.Redis)
	if err != nil {
		return nil, err
	}

	if cfg.BotToken() == "" {
		logger.Log.Warn("DISCORD_BOT_TOKEN is not set, /api/messages will report missing configuration")
	}

	fetcher := discord.NewBreaker(client, backend.Breaker.MaxFailures, backend.Breaker.OpenTimeout)
	message := service.NewMessage(cfg, fetcher, store)
	h := handler.New(message, store, cfg)

	return &Dependencies{
		Config:  cfg,
		Cache:   store,
		Handler: h,
	}, nil
}

func newStore(ctx context.Context, cfg config.Redis) (cache.Store, error) {
	if cfg.Addr == "" {
		logger.Log.Info("using in-memory message cache")
		return cache.NewMemory(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	store, err := cache.DialRedis(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up message cache: %w", err)
	}
	logger.Log.Info("using redis message cache", "addr", cfg.Addr)
	return store, nil
}

// Cleanup releases resources held by the dependencies.
func (d *Dependencies) Cleanup() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			logger.Log.Error("closing message cache", "error", err)
		}
	}
}
