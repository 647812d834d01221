package discord

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"

	"github.com/sociials/logs/shared/logger"
)

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "discord_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

// Fetcher is the call guarded by Breaker. *Client implements it.
type Fetcher interface {
	FetchMessagesRaw(ctx context.Context, channelID string) ([]byte, error)
}

// Breaker stops calling Discord after maxFailures consecutive server-side
// failures. While open every call fails fast with a 503 UpstreamError.
type Breaker struct {
	next Fetcher
	cb   *gobreaker.CircuitBreaker
}

func NewBreaker(next Fetcher, maxFailures uint32, openTimeout time.Duration) *Breaker {
	settings := gobreaker.Settings{
		Name:        "discord",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			breakerState.WithLabelValues(name).Set(float64(to))
		},
	}
	cb := gobreaker.NewCircuitBreaker(settings)
	breakerState.WithLabelValues(cb.Name()).Set(float64(cb.State()))

	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) FetchMessagesRaw(ctx context.Context, channelID string) ([]byte, error) {
	body, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.FetchMessagesRaw(ctx, channelID)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &UpstreamError{StatusCode: http.StatusServiceUnavailable, Body: []byte(err.Error())}
	}
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// countsAsSuccess keeps answers caused by our own configuration (bad token,
// unknown channel) and cancelled requests from opening the breaker.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode < http.StatusInternalServerError && upstream.StatusCode != http.StatusTooManyRequests
	}
	return false
}
