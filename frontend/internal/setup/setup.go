package setup

import (
	"os"
	"time"

	"github.com/sociials/logs/frontend/internal/apiclient"
	"github.com/sociials/logs/frontend/internal/handler"
	"github.com/sociials/logs/frontend/internal/markdown"
	"github.com/sociials/logs/shared/config"
	"github.com/sociials/logs/shared/logger"
)

const templateReloadInterval = 5 * time.Second

type Dependencies struct {
	Handler *handler.Handler
	Public  config.Frontend

	stop chan struct{}
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	frontendCfg := cfg.Public.Frontend

	templates, err := handler.LoadTemplates(frontendCfg.TemplatesPath)
	if err != nil {
		return nil, err
	}
	textProcessor := markdown.New(frontendCfg.TimestampLayout, frontendCfg.Location())
	apiClient := apiclient.New(frontendCfg.BackendURL, frontendCfg.RequestTimeout)

	deps := &Dependencies{
		Handler: handler.New(templates, frontendCfg, textProcessor, apiClient),
		Public:  frontendCfg,
		stop:    make(chan struct{}),
	}
	if os.Getenv("ENV") == "development" {
		go deps.reloadTemplates()
	}
	return deps, nil
}

// reloadTemplates re-parses templates from disk until Cleanup is called.
func (d *Dependencies) reloadTemplates() {
	ticker := time.NewTicker(templateReloadInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			templates, err := handler.LoadTemplates(d.Public.TemplatesPath)
			if err != nil {
				logger.Log.Error("reloading templates", "error", err)
				continue
			}
			d.Handler.SetTemplates(templates)
		}
	}
}

func (d *Dependencies) Cleanup() {
	close(d.stop)
}
