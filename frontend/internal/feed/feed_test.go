package feed

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociials/logs/shared/api"
	"github.com/sociials/logs/shared/domain"
	internal_errors "github.com/sociials/logs/shared/errors"
)

type MockFetcher struct {
	GetMessagesFunc func(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error)
}

func (m *MockFetcher) GetMessages(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error) {
	if m.GetMessagesFunc != nil {
		return m.GetMessagesFunc(ctx, channelType)
	}
	return []api.Message{}, nil
}

var fixedNow = time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)

func sample(ids ...string) []api.Message {
	out := make([]api.Message, len(ids))
	for i, id := range ids {
		out[i] = api.Message{Id: id}
	}
	return out
}

func TestNew(t *testing.T) {
	f := New(domain.Announcements)
	assert.True(t, f.ShowLoading())
	assert.False(t, f.ShowEmpty())
	assert.False(t, f.ShowList())
	assert.Equal(t, "Syncing", f.SyncText())
	assert.Equal(t, "", f.UpdatedText(nil))
}

func TestApply_Success(t *testing.T) {
	f := New(domain.Announcements)
	req := f.BeginFetch()

	ok := f.Apply(Result{Request: req, Messages: sample("2", "1"), At: fixedNow})

	require.True(t, ok)
	assert.False(t, f.Loading)
	assert.True(t, f.ShowList())
	assert.Equal(t, "2", f.Messages[0].Id)
	assert.Equal(t, fixedNow, f.LastUpdated)
	assert.Equal(t, "Connected", f.SyncText())
	assert.Equal(t, "2 messages", f.CountText())
	assert.Equal(t, "Updated 13:45", f.UpdatedText(time.UTC))
}

func TestApply_Empty(t *testing.T) {
	f := New(domain.Status)
	f.Apply(Result{Request: f.BeginFetch(), Messages: nil, At: fixedNow})

	assert.True(t, f.ShowEmpty())
	assert.Equal(t, "No status yet.", f.EmptyText())
	assert.NotNil(t, f.Messages)
}

func TestApply_ErrorKeepsMessages(t *testing.T) {
	f := New(domain.Status)
	f.Apply(Result{Request: f.BeginFetch(), Messages: sample("1"), At: fixedNow})

	err := &internal_errors.ErrorWithStatusCode{Message: "Missing Discord configuration for status", StatusCode: http.StatusInternalServerError}
	f.Apply(Result{Request: f.BeginFetch(), Err: err, At: fixedNow.Add(time.Minute)})

	assert.True(t, f.ShowError())
	assert.False(t, f.ShowList())
	assert.Equal(t, "Missing Discord configuration for status. Check that your Discord credentials are configured.", f.ErrorText())
	assert.Len(t, f.Messages, 1)
	assert.Equal(t, fixedNow, f.LastUpdated)

	// next success clears the error
	f.Apply(Result{Request: f.BeginFetch(), Messages: sample("1"), At: fixedNow})
	assert.False(t, f.ShowError())
}

func TestSwitchTab(t *testing.T) {
	f := New(domain.Announcements)
	f.Apply(Result{Request: f.BeginFetch(), Messages: sample("1"), At: fixedNow})

	assert.False(t, f.SwitchTab(domain.Announcements), "same tab is a no-op")
	assert.Len(t, f.Messages, 1)

	assert.True(t, f.SwitchTab(domain.Status))
	assert.Equal(t, domain.Status, f.Tab)
	assert.Empty(t, f.Messages)
}

func TestApply_DropsSupersededResults(t *testing.T) {
	f := New(domain.Announcements)
	slow := f.BeginFetch()

	f.SwitchTab(domain.Status)
	fast := f.BeginFetch()

	require.True(t, f.Apply(Result{Request: fast, Messages: sample("status"), At: fixedNow}))
	assert.False(t, f.Apply(Result{Request: slow, Messages: sample("announcement"), At: fixedNow}))

	require.Len(t, f.Messages, 1)
	assert.Equal(t, "status", f.Messages[0].Id)
	assert.False(t, f.Loading)
}

func TestApply_SameTabRefetchSupersedes(t *testing.T) {
	f := New(domain.Status)
	first := f.BeginFetch()
	second := f.BeginFetch()

	assert.False(t, f.Apply(Result{Request: first, Messages: sample("old"), At: fixedNow}))
	assert.True(t, f.Loading, "newer fetch still in flight")
	assert.True(t, f.Apply(Result{Request: second, Messages: sample("new"), At: fixedNow}))
	assert.Equal(t, "new", f.Messages[0].Id)
}

func TestFetch(t *testing.T) {
	var got domain.ChannelType
	fetcher := &MockFetcher{
		GetMessagesFunc: func(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error) {
			got = channelType
			return sample("1"), nil
		},
	}

	res := Fetch(context.Background(), fetcher, Request{Tab: domain.Status, Generation: 7}, func() time.Time { return fixedNow })

	assert.Equal(t, domain.Status, got)
	assert.Equal(t, uint64(7), res.Generation)
	assert.Equal(t, fixedNow, res.At)
	assert.NoError(t, res.Err)
	assert.Len(t, res.Messages, 1)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom")))
	assert.Equal(t, "Failed to fetch messages", ErrorMessage(&internal_errors.ErrorWithStatusCode{Message: "Failed to fetch messages", StatusCode: http.StatusBadGateway}))
	assert.Equal(t, "Unknown error occurred", ErrorMessage(nil))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "#01", Index(0))
	assert.Equal(t, "#10", Index(9))
	assert.Equal(t, "#100", Index(99))

	assert.Equal(t, "May 1, 2024", FormatDate("2024-05-01T23:30:00Z", time.UTC))
	assert.Equal(t, "May 2, 2024", FormatDate("2024-05-01T23:30:00Z", time.FixedZone("UTC+2", 7200)))
	assert.Equal(t, "garbage", FormatDate("garbage", nil))
	assert.Equal(t, "Fetching status from Discord...", New(domain.Status).LoadingText())
}
