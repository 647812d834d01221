// Package feed holds the display state shared by the web page and the
// terminal client.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sociials/logs/shared/api"
	"github.com/sociials/logs/shared/domain"
	internal_errors "github.com/sociials/logs/shared/errors"
)

// Fetcher loads one feed from the backend.
type Fetcher interface {
	GetMessages(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error)
}

// Request identifies one fetch. Generation increases with every fetch so
// late answers can be recognised.
type Request struct {
	Tab        domain.ChannelType
	Generation uint64
}

type Result struct {
	Request
	Messages []api.Message
	Err      error
	At       time.Time
}

// Feed is the state of the feed view. The zero value is not usable; use New.
type Feed struct {
	Tab         domain.ChannelType
	Messages    []api.Message
	Loading     bool
	Err         string
	LastUpdated time.Time

	generation uint64
}

// New starts on tab in the loading state, as on first mount.
func New(tab domain.ChannelType) *Feed {
	return &Feed{
		Tab:      tab,
		Messages: []api.Message{},
		Loading:  true,
	}
}

// SwitchTab selects another feed and clears the list. It reports whether the
// tab changed; selecting the active tab does nothing.
func (f *Feed) SwitchTab(tab domain.ChannelType) bool {
	if tab == f.Tab {
		return false
	}
	f.Tab = tab
	f.Messages = []api.Message{}
	return true
}

// BeginFetch marks a fetch of the active tab as in flight and supersedes any
// earlier one.
func (f *Feed) BeginFetch() Request {
	f.generation++
	f.Loading = true
	return Request{Tab: f.Tab, Generation: f.generation}
}

// Apply stores a fetch result. Results of superseded fetches are dropped and
// Apply reports false. A failed fetch keeps the previous messages.
func (f *Feed) Apply(r Result) bool {
	if r.Generation != f.generation || r.Tab != f.Tab {
		return false
	}
	f.Loading = false
	if r.Err != nil {
		f.Err = ErrorMessage(r.Err)
		return true
	}
	f.Messages = r.Messages
	if f.Messages == nil {
		f.Messages = []api.Message{}
	}
	f.LastUpdated = r.At
	f.Err = ""
	return true
}

// Fetch runs req against the backend.
func Fetch(ctx context.Context, fetcher Fetcher, req Request, now func() time.Time) Result {
	messages, err := fetcher.GetMessages(ctx, req.Tab)
	return Result{Request: req, Messages: messages, Err: err, At: now()}
}

// ErrorMessage is the text shown for a failed fetch.
func ErrorMessage(err error) string {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil || err.Error() == "" {
		return "Unknown error occurred"
	}
	return err.Error()
}

func (f *Feed) ShowLoading() bool { return f.Loading }

func (f *Feed) ShowError() bool { return f.Err != "" }

func (f *Feed) ShowEmpty() bool {
	return !f.Loading && f.Err == "" && len(f.Messages) == 0
}

func (f *Feed) ShowList() bool {
	return !f.Loading && f.Err == "" && len(f.Messages) > 0
}

// Texts shown by both shells.

func (f *Feed) LoadingText() string {
	return fmt.Sprintf("Fetching %s from Discord...", f.Tab)
}

func (f *Feed) ErrorText() string {
	return f.Err + ". Check that your Discord credentials are configured."
}

func (f *Feed) EmptyText() string {
	return fmt.Sprintf("No %s yet.", f.Tab)
}

// SyncText is the connection indicator label.
func (f *Feed) SyncText() string {
	if f.Loading {
		return "Syncing"
	}
	return "Connected"
}

func (f *Feed) CountText() string {
	return fmt.Sprintf("%d messages", len(f.Messages))
}

// UpdatedText is empty until the first successful fetch.
func (f *Feed) UpdatedText(loc *time.Location) string {
	if f.LastUpdated.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return "Updated " + f.LastUpdated.In(loc).Format("15:04")
}

// Index renders a 0-based position as #01, #02, ...
func Index(i int) string {
	return fmt.Sprintf("#%02d", i+1)
}

// FormatDate renders an RFC 3339 timestamp as "Jan 2, 2006". Unparseable
// input is returned unchanged.
func FormatDate(timestamp string, loc *time.Location) string {
	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format("Jan 2, 2006")
}
