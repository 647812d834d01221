package errors

import "net/http"

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Err        error // underlying cause, never shown to the caller
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Unwrap() error {
	return e.Err
}

const (
	MsgUpstreamFailed = "Failed to fetch messages from Discord"
	MsgInternal       = "Internal server error"
	MsgRateLimited    = "Rate limit exceeded, try again later"
)

// Config reports a missing token or channel id for the given feed.
func Config(channelType string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{
		Message:    "Missing Discord configuration for " + channelType,
		StatusCode: http.StatusInternalServerError,
	}
}

// Upstream carries Discord's status code; the cause stays server-side.
func Upstream(statusCode int, cause error) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{
		Message:    MsgUpstreamFailed,
		StatusCode: statusCode,
		Err:        cause,
	}
}

func Internal(cause error) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{
		Message:    MsgInternal,
		StatusCode: http.StatusInternalServerError,
		Err:        cause,
	}
}
