// Package cache keeps Discord responses around for the revalidation window.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store holds raw upstream bodies keyed by channel.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Key namespaces a Discord channel id.
func Key(channelID string) string {
	return "logs:messages:" + channelID
}
