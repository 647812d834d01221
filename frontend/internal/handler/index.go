package handler

import (
	"errors"
	"net/http"

	frontend_domain "github.com/sociials/logs/frontend/internal/domain"
	"github.com/sociials/logs/frontend/internal/feed"
	"github.com/sociials/logs/shared/domain"
	"github.com/sociials/logs/shared/logger"
)

const siteTitle = "Status Updates & Announcements"

// IndexGetHandler renders the feed for ?tab=. The page refreshes itself every
// RefreshInterval, and every tab link is a fresh fetch.
func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	f := feed.New(domain.ParseChannelType(r.URL.Query().Get("tab")))

	res := feed.Fetch(r.Context(), h.APIClient, f.BeginFetch(), h.now)
	if res.Err != nil {
		logger.FromContext(r.Context()).Warn("fetching messages", "tab", f.Tab.String(), "error", res.Err, "cause", errors.Unwrap(res.Err))
	}
	f.Apply(res)

	w.Header().Set("Cache-Control", "no-cache")
	h.renderTemplate(w, r, "index.html", h.buildIndexPage(f), frontend_domain.CommonTemplateData{
		Title:          siteTitle,
		RefreshSeconds: int(h.Public.RefreshInterval.Seconds()),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
