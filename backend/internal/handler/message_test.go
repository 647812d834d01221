package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociials/logs/backend/internal/service"
	"github.com/sociials/logs/shared/api"
	"github.com/sociials/logs/shared/config"
	"github.com/sociials/logs/shared/domain"
	internal_errors "github.com/sociials/logs/shared/errors"
)

// --- Mock for MessageService ---

type MockMessageService struct {
	ListFunc func(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error)
}

func (m *MockMessageService) List(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, channelType)
	}
	return []api.Message{}, nil
}

func newTestHandler(svc service.MessageService) *Handler {
	return New(svc, &MockHealthChecker{}, config.New(config.Public{}, config.Private{}))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestGetMessages_ChannelTypeSelection(t *testing.T) {
	tests := []struct {
		query string
		want  domain.ChannelType
	}{
		{"", domain.Announcements},
		{"?type=announcements", domain.Announcements},
		{"?type=status", domain.Status},
		{"?type=bogus", domain.Announcements},
		{"?type=STATUS", domain.Announcements},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got domain.ChannelType
			h := newTestHandler(&MockMessageService{
				ListFunc: func(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error) {
					got = channelType
					return []api.Message{}, nil
				},
			})

			req := httptest.NewRequest(http.MethodGet, "/api/messages"+tt.query, nil)
			rr := httptest.NewRecorder()
			h.GetMessages(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetMessages_Success(t *testing.T) {
	avatar := "https://cdn.discordapp.com/avatars/7/h.png"
	h := newTestHandler(&MockMessageService{
		ListFunc: func(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error) {
			return []api.Message{
				{Id: "2", Content: "hi", Timestamp: "2024-05-01T12:00:00Z", Author: "ops", AuthorAvatar: &avatar,
					Embeds: []api.Embed{{Title: "t", Color: "#0000ff"}}, Attachments: []api.Attachment{}},
				{Id: "1", Content: "", Timestamp: "2024-05-01T11:00:00Z", Author: "mod",
					Embeds: []api.Embed{}, Attachments: []api.Attachment{}},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/messages?type=status", nil)
	rr := httptest.NewRecorder()
	h.GetMessages(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=60, s-maxage=60", rr.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"messages":[
		{"id":"2","content":"hi","timestamp":"2024-05-01T12:00:00Z","author":"ops",
		 "authorAvatar":"https://cdn.discordapp.com/avatars/7/h.png",
		 "embeds":[{"title":"t","color":"#0000ff"}],"attachments":[]},
		{"id":"1","content":"","timestamp":"2024-05-01T11:00:00Z","author":"mod",
		 "authorAvatar":null,"embeds":[],"attachments":[]}
	]}`, rr.Body.String())
}

func TestGetMessages_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "configuration",
			err:        internal_errors.Config("status"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Missing Discord configuration for status",
		},
		{
			name:       "upstream status passthrough",
			err:        internal_errors.Upstream(http.StatusNotFound, errors.New("Unknown Channel")),
			wantStatus: http.StatusNotFound,
			wantError:  "Failed to fetch messages from Discord",
		},
		{
			name:       "upstream rate limit passthrough",
			err:        internal_errors.Upstream(http.StatusTooManyRequests, nil),
			wantStatus: http.StatusTooManyRequests,
			wantError:  "Failed to fetch messages from Discord",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&MockMessageService{
				ListFunc: func(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error) {
					return nil, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
			rr := httptest.NewRecorder()
			h.GetMessages(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rr))
			assert.Empty(t, rr.Header().Get("Cache-Control"))
		})
	}
}

func TestGetMessages_MissingConfigurationNamesTab(t *testing.T) {
	cfg := config.New(config.Public{}, config.Private{BotToken: "tok", AnnouncementsChannelID: "111"})
	svc := service.NewMessage(cfg, nil, nil)
	h := New(svc, nil, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/messages?type=status", nil)
	rr := httptest.NewRecorder()
	h.GetMessages(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Missing Discord configuration for status", decodeError(t, rr))
}
