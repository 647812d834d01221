package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockFetcher struct {
	FetchFunc func(ctx context.Context, channelID string) ([]byte, error)
	calls     int
}

func (m *MockFetcher) FetchMessagesRaw(ctx context.Context, channelID string) ([]byte, error) {
	m.calls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, channelID)
	}
	return []byte("[]"), nil
}

func failWith(err error) func(context.Context, string) ([]byte, error) {
	return func(context.Context, string) ([]byte, error) { return nil, err }
}

func TestBreaker_PassesThrough(t *testing.T) {
	next := &MockFetcher{}
	b := NewBreaker(next, 2, time.Minute)

	body, err := b.FetchMessagesRaw(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), body)
	assert.Equal(t, 1, next.calls)
}

func TestBreaker_OpensOnServerFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"bad gateway", &UpstreamError{StatusCode: http.StatusBadGateway}},
		{"rate limited", &UpstreamError{StatusCode: http.StatusTooManyRequests}},
		{"network", errors.New("connection refused")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &MockFetcher{FetchFunc: failWith(tt.err)}
			b := NewBreaker(next, 2, time.Minute)

			for i := 0; i < 2; i++ {
				_, err := b.FetchMessagesRaw(context.Background(), "123")
				assert.Equal(t, tt.err, err)
			}
			assert.Equal(t, gobreaker.StateOpen, b.State())

			_, err := b.FetchMessagesRaw(context.Background(), "123")
			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
			assert.Equal(t, 2, next.calls, "open breaker must not call Discord")
		})
	}
}

func TestBreaker_IgnoresClientErrors(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		next := &MockFetcher{FetchFunc: failWith(&UpstreamError{StatusCode: code})}
		b := NewBreaker(next, 2, time.Minute)

		for i := 0; i < 5; i++ {
			_, err := b.FetchMessagesRaw(context.Background(), "123")
			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, code, upstream.StatusCode)
		}
		assert.Equal(t, gobreaker.StateClosed, b.State())
		assert.Equal(t, 5, next.calls)
	}
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	fail := true
	next := &MockFetcher{FetchFunc: func(context.Context, string) ([]byte, error) {
		if fail {
			return nil, &UpstreamError{StatusCode: http.StatusInternalServerError}
		}
		return []byte("[]"), nil
	}}
	b := NewBreaker(next, 2, time.Minute)

	_, _ = b.FetchMessagesRaw(context.Background(), "123")
	fail = false
	_, err := b.FetchMessagesRaw(context.Background(), "123")
	require.NoError(t, err)
	fail = true
	_, _ = b.FetchMessagesRaw(context.Background(), "123")

	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_HalfOpenAfterTimeout(t *testing.T) {
	fail := true
	next := &MockFetcher{FetchFunc: func(context.Context, string) ([]byte, error) {
		if fail {
			return nil, &UpstreamError{StatusCode: http.StatusBadGateway}
		}
		return []byte("[]"), nil
	}}
	b := NewBreaker(next, 1, 20*time.Millisecond)

	_, _ = b.FetchMessagesRaw(context.Background(), "123")
	require.Equal(t, gobreaker.StateOpen, b.State())

	time.Sleep(40 * time.Millisecond)
	fail = false
	_, err := b.FetchMessagesRaw(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
