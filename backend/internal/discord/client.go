package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// MessageLimit is how many of the most recent messages are requested.
const MessageLimit = 50

// UpstreamError is a non-success answer from Discord.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("discord returned status %d: %s", e.StatusCode, string(e.Body))
}

// Message is a decoded Discord message. RawTimestamp is the timestamp string
// exactly as Discord sent it.
type Message struct {
	*discordgo.Message
	RawTimestamp string
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var msg discordgo.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	var raw struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Message = &msg
	m.RawTimestamp = raw.Timestamp
	return nil
}

// Client performs a single, non-retried GET against the Discord REST API.
// It never waits on rate limits: an exhausted bucket is answered with a 429.
type Client struct {
	baseURL string
	session *discordgo.Session
}

// New creates a client for baseURL (e.g. https://discord.com/api/v10)
// authenticating as a bot. A nil httpClient gets one with the given timeout.
func New(baseURL, token string, httpClient *http.Client, timeout time.Duration) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	session.Client = withStatusRecorder(httpClient)
	// One attempt per poll; the caller re-polls.
	session.ShouldRetryOnRateLimit = false
	session.MaxRestRetries = 0

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
	}, nil
}

// MessagesURL is the endpoint polled for a channel.
func (c *Client) MessagesURL(channelID string) string {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(MessageLimit))
	return c.baseURL + "/channels/" + url.PathEscape(channelID) + "/messages?" + v.Encode()
}

// FetchMessagesRaw returns the undecoded JSON array of the channel's latest
// messages. Non-success statuses come back as *UpstreamError.
func (c *Client) FetchMessagesRaw(ctx context.Context, channelID string) ([]byte, error) {
	bucketID := discordgo.EndpointChannelMessages(channelID)
	if wait := c.rateLimitWait(bucketID); wait > 0 {
		body := fmt.Sprintf(`{"message":"rate limit bucket exhausted","retry_after":%.3f}`, wait.Seconds())
		return nil, &UpstreamError{StatusCode: http.StatusTooManyRequests, Body: []byte(body)}
	}

	var status int
	ctx = context.WithValue(ctx, statusKey{}, &status)
	body, err := c.session.RequestWithBucketID(
		http.MethodGet,
		c.MessagesURL(channelID),
		nil,
		bucketID,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, translateError(err, status)
	}
	return body, nil
}

// rateLimitWait is how long discordgo would sleep before sending on bucketID.
func (c *Client) rateLimitWait(bucketID string) time.Duration {
	limiter := c.session.Ratelimiter
	bucket := limiter.GetBucket(bucketID)
	bucket.Lock()
	defer bucket.Unlock()
	return limiter.GetWaitTime(bucket, 1)
}

// DecodeMessages parses a Discord message array.
func DecodeMessages(body []byte) ([]*Message, error) {
	var messages []*Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("cannot decode discord messages: %w", err)
	}
	return messages, nil
}

// translateError maps discordgo errors to *UpstreamError. status is the HTTP
// status Discord answered with, zero when no response arrived.
func translateError(err error, status int) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return &UpstreamError{StatusCode: restErr.Response.StatusCode, Body: restErr.ResponseBody}
	}
	var rlErr *discordgo.RateLimitError
	if errors.As(err, &rlErr) {
		var body []byte
		if rlErr.RateLimit != nil {
			body, _ = json.Marshal(rlErr.RateLimit.TooManyRequests)
		}
		return &UpstreamError{StatusCode: http.StatusTooManyRequests, Body: body}
	}
	// discordgo reports exhausted 502s and undecodable 429 bodies as plain
	// errors; the recorded status still says what Discord answered.
	if status >= http.StatusMultipleChoices {
		return &UpstreamError{StatusCode: status, Body: []byte(err.Error())}
	}
	return fmt.Errorf("discord request failed: %w", err)
}

type statusKey struct{}

// statusTransport stores the response status into the *int carried by the
// request context under statusKey.
type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if resp != nil {
		if status, ok := req.Context().Value(statusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}

func withStatusRecorder(client *http.Client) *http.Client {
	wrapped := *client
	next := wrapped.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	wrapped.Transport = statusTransport{next: next}
	return &wrapped
}
