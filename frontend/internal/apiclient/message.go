package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sociials/logs/shared/api"
	"github.com/sociials/logs/shared/domain"
	internal_errors "github.com/sociials/logs/shared/errors"
	"github.com/sociials/logs/shared/utils"
)

// MsgFetchFailed is shown when the backend gave no usable error message.
const MsgFetchFailed = "Failed to fetch messages"

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// GetMessages fetches one feed. Every failure is an *ErrorWithStatusCode whose
// Message is fit for display.
func (c *APIClient) GetMessages(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error) {
	path := "/api/messages?type=" + url.QueryEscape(channelType.String())

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &internal_errors.ErrorWithStatusCode{
			Message:    MsgFetchFailed,
			StatusCode: http.StatusBadGateway,
			Err:        err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp)
	}

	var response api.MessagesResponse
	if err := utils.Decode(resp.Body, &response); err != nil {
		return nil, &internal_errors.ErrorWithStatusCode{
			Message:    MsgFetchFailed,
			StatusCode: http.StatusBadGateway,
			Err:        fmt.Errorf("cannot decode messages response: %w", err),
		}
	}
	if response.Messages == nil {
		response.Messages = []api.Message{}
	}
	return response.Messages, nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := MsgFetchFailed

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
	}
	return &internal_errors.ErrorWithStatusCode{
		Message:    message,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("backend returned status %d", resp.StatusCode),
	}
}
