package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sociials/logs/shared/domain"
)

type theme struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Heading   lipgloss.Style
	Muted     lipgloss.Style
	Index     lipgloss.Style
	Author    lipgloss.Style
	Body      lipgloss.Style
	Embed     lipgloss.Style
	Danger    lipgloss.Style
	Help      lipgloss.Style
	Dots      map[domain.StatusColor]lipgloss.Style
}

func defaultTheme() theme {
	accent := lipgloss.Color("#5865F2")
	muted := lipgloss.Color("#7D7D7D")
	green := lipgloss.Color("#3BA55D")
	orange := lipgloss.Color("#FAA61A")
	red := lipgloss.Color("#ED4245")

	return theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Index: lipgloss.NewStyle().
			Foreground(accent),
		Author: lipgloss.NewStyle().
			Bold(true),
		Body: lipgloss.NewStyle().
			PaddingLeft(2),
		Embed: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(accent).
			MarginLeft(2).
			PaddingLeft(1),
		Danger: lipgloss.NewStyle().
			Foreground(red),
		Help: lipgloss.NewStyle().
			Foreground(muted),
		Dots: map[domain.StatusColor]lipgloss.Style{
			domain.StatusGreen:  lipgloss.NewStyle().Foreground(green),
			domain.StatusOrange: lipgloss.NewStyle().Foreground(orange),
			domain.StatusRed:    lipgloss.NewStyle().Foreground(red),
			domain.StatusGray:   lipgloss.NewStyle().Foreground(muted),
		},
	}
}

// dot renders the status indicator for c.
func (th theme) dot(c domain.StatusColor) string {
	style, ok := th.Dots[c]
	if !ok {
		style = th.Dots[domain.StatusGray]
	}
	return style.Render("●")
}
