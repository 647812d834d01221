package handler

import (
	"html/template"
	"sync"
	"time"

	"github.com/sociials/logs/frontend/internal/feed"
	"github.com/sociials/logs/frontend/internal/markdown"
	"github.com/sociials/logs/shared/config"
)

type Handler struct {
	Templates     map[string]*template.Template
	Public        config.Frontend
	TextProcessor *markdown.TextProcessor
	APIClient     feed.Fetcher
	Location      *time.Location

	now func() time.Time
	mu  sync.RWMutex
}

func New(templates map[string]*template.Template, frontendCfg config.Frontend, textProcessor *markdown.TextProcessor, apiClient feed.Fetcher) *Handler {
	return &Handler{
		Templates:     templates,
		Public:        frontendCfg,
		TextProcessor: textProcessor,
		APIClient:     apiClient,
		Location:      frontendCfg.Location(),
		now:           time.Now,
	}
}

// SetTemplates swaps the parsed template set while requests are in flight.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.mu.Lock()
	h.Templates = templates
	h.mu.Unlock()
}

func (h *Handler) lookupTemplate(name string) (*template.Template, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	tmpl, ok := h.Templates[name]
	return tmpl, ok
}
