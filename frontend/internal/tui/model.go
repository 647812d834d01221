// Package tui is the terminal shell of the feed: it polls the backend on an
// interval and renders messages as plain text.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sociials/logs/frontend/internal/feed"
	"github.com/sociials/logs/frontend/internal/markdown"
	"github.com/sociials/logs/shared/domain"
	"github.com/sociials/logs/shared/logger"
)

type Options struct {
	Client   feed.Fetcher
	Text     *markdown.TextProcessor
	Tab      domain.ChannelType
	Interval time.Duration
	Timeout  time.Duration
	Location *time.Location
	Now      func() time.Time
}

// fetchedMsg delivers the result of one backend request.
type fetchedMsg feed.Result

// tickMsg fires the poll loop. Ticks from a loop that was restarted by a tab
// switch carry an old id and are ignored.
type tickMsg struct {
	id int
}

type Model struct {
	opts Options
	th   theme
	feed *feed.Feed

	tickID int
	width  int
	height int
	offset int
}

func NewModel(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return Model{
		opts: opts,
		th:   defaultTheme(),
		feed: feed.New(opts.Tab),
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.feed.BeginFetch()), m.tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = t.Width
		m.height = t.Height
		m.offset = m.clampOffset(m.offset)
		return m, nil

	case fetchedMsg:
		res := feed.Result(t)
		if !m.feed.Apply(res) {
			logger.Log.Debug("dropping stale fetch", "tab", res.Tab.String(), "generation", res.Generation)
			return m, nil
		}
		if res.Err != nil {
			logger.Log.Warn("fetching messages", "tab", res.Tab.String(), "error", res.Err)
		}
		m.offset = m.clampOffset(m.offset)
		return m, nil

	case tickMsg:
		if t.id != m.tickID {
			return m, nil
		}
		return m, tea.Batch(m.fetch(m.feed.BeginFetch()), m.tick())

	case tea.KeyMsg:
		return m.updateKeys(t)
	}
	return m, nil
}

func (m Model) updateKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.selectTab(nextTab(m.feed.Tab))
	case "1":
		return m.selectTab(domain.Announcements)
	case "2":
		return m.selectTab(domain.Status)
	case "r":
		return m, m.fetch(m.feed.BeginFetch())
	case "up", "k":
		m.offset = m.clampOffset(m.offset - 1)
	case "down", "j":
		m.offset = m.clampOffset(m.offset + 1)
	case "pgup":
		m.offset = m.clampOffset(m.offset - m.bodyHeight())
	case "pgdown", " ":
		m.offset = m.clampOffset(m.offset + m.bodyHeight())
	case "home", "g":
		m.offset = 0
	}
	return m, nil
}

// selectTab switches feeds, fetches the new one and restarts the poll loop.
func (m Model) selectTab(tab domain.ChannelType) (tea.Model, tea.Cmd) {
	if !m.feed.SwitchTab(tab) {
		return m, nil
	}
	m.offset = 0
	m.tickID++
	return m, tea.Batch(m.fetch(m.feed.BeginFetch()), m.tick())
}

func (m Model) fetch(req feed.Request) tea.Cmd {
	client, timeout, now := m.opts.Client, m.opts.Timeout, m.opts.Now
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return fetchedMsg(feed.Fetch(ctx, client, req, now))
	}
}

func (m Model) tick() tea.Cmd {
	id := m.tickID
	return tea.Tick(m.opts.Interval, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

func nextTab(tab domain.ChannelType) domain.ChannelType {
	for i, t := range domain.ChannelTypes {
		if t == tab {
			return domain.ChannelTypes[(i+1)%len(domain.ChannelTypes)]
		}
	}
	return domain.Announcements
}
