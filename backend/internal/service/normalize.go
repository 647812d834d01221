package service

import (
	"fmt"
	"path"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/sociials/logs/backend/internal/discord"
	"github.com/sociials/logs/shared/api"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Normalize reshapes raw Discord messages into the API form. The result has
// the same length and order as the input.
func Normalize(raw []*discord.Message) []api.Message {
	messages := make([]api.Message, len(raw))
	for i, m := range raw {
		if m == nil || m.Message == nil {
			continue
		}
		messages[i] = normalizeMessage(m)
	}
	return messages
}

// Timestamps pass through in Discord's own format.
func normalizeMessage(m *discord.Message) api.Message {
	msg := api.Message{
		Id:           m.ID,
		Content:      m.Content,
		Timestamp:    m.RawTimestamp,
		Author:       authorName(m.Author),
		AuthorAvatar: avatarURL(m.Author),
		Embeds:       make([]api.Embed, len(m.Embeds)),
		Attachments:  make([]api.Attachment, len(m.Attachments)),
	}

	for i, e := range m.Embeds {
		if e == nil {
			continue
		}
		embed := api.Embed{
			Title:       e.Title,
			Description: e.Description,
			Url:         e.URL,
			Color:       intToHex(e.Color),
		}
		if e.Image != nil {
			embed.ImageUrl = e.Image.URL
		}
		if e.Thumbnail != nil {
			embed.ThumbnailUrl = e.Thumbnail.URL
		}
		msg.Embeds[i] = embed
	}

	for i, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments[i] = api.Attachment{
			Id:       a.ID,
			Url:      a.URL,
			Filename: a.Filename,
			IsImage:  isImage(a.ContentType, a.Filename),
		}
	}
	return msg
}

// authorName prefers the global display name over the username.
func authorName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func avatarURL(u *discordgo.User) *string {
	if u == nil || u.Avatar == "" {
		return nil
	}
	// EndpointUserAvatar picks .gif for animated hashes; the feed always uses png.
	url := discordgo.EndpointCDNAvatars + u.ID + "/" + u.Avatar + ".png"
	return &url
}

// intToHex renders an embed color as #rrggbb; zero means no color.
func intToHex(color int) string {
	if color == 0 {
		return ""
	}
	return fmt.Sprintf("#%06x", color)
}

func isImage(contentType, filename string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	return imageExtensions[strings.ToLower(path.Ext(filename))]
}
