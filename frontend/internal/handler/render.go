package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"regexp"

	frontend_domain "github.com/sociials/logs/frontend/internal/domain"
	"github.com/sociials/logs/frontend/internal/feed"
	"github.com/sociials/logs/frontend/internal/status"
	"github.com/sociials/logs/shared/api"
	"github.com/sociials/logs/shared/domain"
	"github.com/sociials/logs/shared/logger"
)

const defaultEmbedColor = "#5865f2"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any, common frontend_domain.CommonTemplateData) {
	tmpl, ok := h.lookupTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, TemplateData{Data: data, Common: common}); err != nil {
		logger.FromContext(r.Context()).Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// buildIndexPage turns feed state into the page view model.
func (h *Handler) buildIndexPage(f *feed.Feed) frontend_domain.IndexPageData {
	page := frontend_domain.IndexPageData{
		Active:      f.Tab,
		Heading:     f.Tab.Title(),
		SyncText:    f.SyncText(),
		CountText:   f.CountText(),
		UpdatedText: f.UpdatedText(h.Location),
		ShowStatus:  f.Tab == domain.Status,
	}
	for _, t := range domain.ChannelTypes {
		page.Tabs = append(page.Tabs, frontend_domain.Tab{
			Type:   t,
			Label:  t.Label(),
			Href:   "/?tab=" + t.String(),
			Active: t == f.Tab,
		})
	}

	switch {
	case f.ShowLoading():
		page.Loading = f.LoadingText()
	case f.ShowError():
		page.Error = f.ErrorText()
	case f.ShowEmpty():
		page.Empty = f.EmptyText()
	default:
		page.Messages = make([]*frontend_domain.Message, len(f.Messages))
		for i, m := range f.Messages {
			page.Messages[i] = h.renderMessage(m, i, f.Tab)
		}
	}
	return page
}

func (h *Handler) renderMessage(m api.Message, index int, tab domain.ChannelType) *frontend_domain.Message {
	msg := &frontend_domain.Message{
		Id:          m.Id,
		Index:       feed.Index(index),
		Date:        feed.FormatDate(m.Timestamp, h.Location),
		Author:      m.Author,
		Content:     template.HTML(h.TextProcessor.RenderMessage(m.Content)),
		Attachments: make([]frontend_domain.Attachment, len(m.Attachments)),
		Embeds:      make([]frontend_domain.Embed, len(m.Embeds)),
	}
	if m.AuthorAvatar != nil {
		msg.Avatar = *m.AuthorAvatar
	}
	if tab == domain.Status {
		msg.Status = status.Classify(m.Content)
	}

	for i, a := range m.Attachments {
		msg.Attachments[i] = frontend_domain.Attachment{Url: a.Url, Filename: a.Filename, IsImage: a.IsImage}
	}
	for i, e := range m.Embeds {
		color := e.Color
		if color == "" {
			color = defaultEmbedColor
		}
		msg.Embeds[i] = frontend_domain.Embed{
			Title:        e.Title,
			Url:          e.Url,
			Description:  template.HTML(h.TextProcessor.RenderEmbedDescription(e.Description)),
			BorderColor:  color,
			ImageUrl:     e.ImageUrl,
			ThumbnailUrl: e.ThumbnailUrl,
		}
	}
	return msg
}
