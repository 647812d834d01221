package frontend_domain

import (
	"html/template"

	"github.com/sociials/logs/shared/domain"
)

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Title          string
	RefreshSeconds int // <meta refresh> period; 0 disables it
}

type Tab struct {
	Type   domain.ChannelType
	Label  string
	Href   string
	Active bool
}

// IndexPageData is the feed page. Exactly one of Error, Empty or Messages is
// shown.
type IndexPageData struct {
	Tabs        []Tab
	Active      domain.ChannelType
	Heading     string
	SyncText    string
	CountText   string
	UpdatedText string
	Loading     string
	Error       string
	Empty       string
	Messages    []*Message
	ShowStatus  bool
}

// Message is an api.Message prepared for the page. Content is sanitized HTML.
type Message struct {
	Id          string
	Index       string
	Date        string
	Author      string
	Avatar      string
	Status      domain.StatusColor
	Content     template.HTML
	Attachments []Attachment
	Embeds      []Embed
}

type Attachment struct {
	Url      string
	Filename string
	IsImage  bool
}

type Embed struct {
	Title        string
	Url          string
	Description  template.HTML
	BorderColor  string
	ImageUrl     string
	ThumbnailUrl string
}
