package api

// Response DTOs of GET /api/messages, shared by backend and frontend.

// Message is a Discord message reshaped for display. Content is still raw
// Discord markup.
type Message struct {
	Id           string       `json:"id"`
	Content      string       `json:"content"`
	Timestamp    string       `json:"timestamp"`
	Author       string       `json:"author"`
	AuthorAvatar *string      `json:"authorAvatar"`
	Embeds       []Embed      `json:"embeds"`
	Attachments  []Attachment `json:"attachments"`
}

type Embed struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Url          string `json:"url,omitempty"`
	Color        string `json:"color,omitempty"` // #rrggbb, absent when Discord sent 0
	ImageUrl     string `json:"imageUrl,omitempty"`
	ThumbnailUrl string `json:"thumbnailUrl,omitempty"`
}

type Attachment struct {
	Id       string `json:"id"`
	Url      string `json:"url"`
	Filename string `json:"filename"`
	IsImage  bool   `json:"isImage"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
