package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sociials/logs/frontend/internal/feed"
	"github.com/sociials/logs/frontend/internal/status"
	"github.com/sociials/logs/shared/api"
	"github.com/sociials/logs/shared/domain"
)

const (
	title    = "Status Updates & Announcements"
	helpText = "tab/1/2 switch · r refresh · ↑/↓ scroll · q quit"

	// header rows plus the help line
	chromeHeight = 5
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.th.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("  ")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.th.Heading.Render(m.feed.Tab.Title()))
	b.WriteString("\n\n")

	lines := m.bodyLines()
	if h := m.bodyHeight(); h > 0 && len(lines) > h {
		end := m.offset + h
		if end > len(lines) {
			end = len(lines)
		}
		lines = lines[m.offset:end]
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(m.th.Help.Render(helpText))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(domain.ChannelTypes))
	for i, t := range domain.ChannelTypes {
		label := string(rune('1'+i)) + " " + t.Label()
		if t == m.feed.Tab {
			tabs[i] = m.th.ActiveTab.Render(label)
		} else {
			tabs[i] = m.th.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatusLine() string {
	indicator := m.th.dot(domain.StatusGreen)
	if m.feed.Loading {
		indicator = m.th.dot(domain.StatusOrange)
	}
	parts := []string{indicator + " " + m.feed.SyncText(), m.feed.CountText()}
	if updated := m.feed.UpdatedText(m.opts.Location); updated != "" {
		parts = append(parts, updated)
	}
	return m.th.Muted.Render(strings.Join(parts, " · "))
}

// bodyLines renders the feed area for the current state.
func (m Model) bodyLines() []string {
	var out string
	switch {
	case m.feed.ShowLoading() && len(m.feed.Messages) == 0:
		out = m.th.Muted.Render(m.feed.LoadingText())
	case m.feed.ShowError():
		out = m.th.Danger.Render(m.feed.ErrorText())
	case m.feed.ShowEmpty():
		out = m.th.Muted.Render(m.feed.EmptyText())
	default:
		entries := make([]string, len(m.feed.Messages))
		for i, msg := range m.feed.Messages {
			entries[i] = m.renderMessage(msg, i)
		}
		out = strings.Join(entries, "\n\n")
	}
	return strings.Split(out, "\n")
}

func (m Model) renderMessage(msg api.Message, index int) string {
	var header []string
	if m.feed.Tab == domain.Status {
		header = append(header, m.th.dot(status.Classify(msg.Content)))
	}
	header = append(header,
		m.th.Index.Render(feed.Index(index)),
		m.th.Muted.Render(feed.FormatDate(msg.Timestamp, m.opts.Location)),
		m.th.Author.Render("@"+msg.Author),
	)

	body := m.th.Body
	if m.width > 4 {
		body = body.Width(m.width - 2)
	}

	lines := []string{strings.Join(header, " ")}
	if text := m.plainText(msg.Content); text != "" {
		lines = append(lines, body.Render(text))
	}
	for _, a := range msg.Attachments {
		lines = append(lines, body.Render(m.th.Muted.Render("📎 "+a.Filename+" "+a.Url)))
	}
	for _, e := range msg.Embeds {
		if embed := m.renderEmbed(e); embed != "" {
			lines = append(lines, embed)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEmbed(e api.Embed) string {
	var parts []string
	if e.Title != "" {
		parts = append(parts, m.th.Author.Render(e.Title))
	}
	if e.Url != "" {
		parts = append(parts, m.th.Muted.Render(e.Url))
	}
	if text := m.plainText(e.Description); text != "" {
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return ""
	}
	style := m.th.Embed
	if e.Color != "" {
		style = style.BorderForeground(lipgloss.Color(e.Color))
	}
	return style.Render(strings.Join(parts, "\n"))
}

func (m Model) plainText(content string) string {
	if m.opts.Text == nil {
		return content
	}
	return m.opts.Text.PlainText(content)
}

func (m Model) bodyHeight() int {
	return m.height - chromeHeight
}

func (m Model) clampOffset(offset int) int {
	limit := len(m.bodyLines()) - m.bodyHeight()
	if offset > limit {
		offset = limit
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
