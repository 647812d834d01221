package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sociials/logs/backend/internal/cache"
	"github.com/sociials/logs/backend/internal/discord"
	"github.com/sociials/logs/shared/api"
	"github.com/sociials/logs/shared/config"
	"github.com/sociials/logs/shared/domain"
	internal_errors "github.com/sociials/logs/shared/errors"
	"github.com/sociials/logs/shared/logger"
)

type MessageService interface {
	List(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error)
}

// MessageFetcher is the single outbound call to Discord.
type MessageFetcher interface {
	FetchMessagesRaw(ctx context.Context, channelID string) ([]byte, error)
}

type Message struct {
	cfg     *config.Config
	fetcher MessageFetcher
	store   cache.Store
	ttl     time.Duration
	timeout time.Duration
	group   singleflight.Group
}

// NewMessage wires the Discord fetcher behind the response cache. A nil store
// disables caching.
func NewMessage(cfg *config.Config, fetcher MessageFetcher, store cache.Store) *Message {
	return &Message{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		ttl:     cfg.Public.Backend.Revalidate,
		timeout: cfg.Public.Backend.RequestTimeout,
	}
}

// List returns the latest messages of the feed, newest first as Discord
// orders them.
func (s *Message) List(ctx context.Context, channelType domain.ChannelType) ([]api.Message, error) {
	channelID := s.cfg.ChannelID(channelType)
	if s.cfg.BotToken() == "" || channelID == "" {
		return nil, internal_errors.Config(channelType.String())
	}

	log := logger.FromContext(ctx).With("channel_type", channelType.String())
	key := cache.Key(channelID)

	if raw, ok := s.cached(ctx, key); ok {
		cacheTotal.WithLabelValues(resultHit).Inc()
		return Normalize(raw), nil
	}
	cacheTotal.WithLabelValues(resultMiss).Inc()

	// The shared fetch outlives any single caller; each caller stops waiting
	// when its own context ends.
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		body, err := s.fetcher.FetchMessagesRaw(fetchCtx, channelID)
		if err != nil {
			return nil, err
		}
		raw, err := discord.DecodeMessages(body)
		if err != nil {
			return nil, err
		}
		s.remember(fetchCtx, key, body)
		return raw, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, internal_errors.Internal(ctx.Err())
	case res = <-ch:
	}
	if res.Shared {
		log.Debug("joined in-flight discord request")
	}
	err := res.Err
	if err != nil {
		var upstream *discord.UpstreamError
		if errors.As(err, &upstream) {
			discordRequestsTotal.WithLabelValues(channelType.String(), outcomeUpstreamError).Inc()
			log.Error("Discord API error", "status", upstream.StatusCode, "body", string(upstream.Body))
			return nil, internal_errors.Upstream(upstream.StatusCode, err)
		}
		discordRequestsTotal.WithLabelValues(channelType.String(), outcomeFailure).Inc()
		log.Error("Error fetching Discord messages", "error", err)
		return nil, internal_errors.Internal(err)
	}

	discordRequestsTotal.WithLabelValues(channelType.String(), outcomeSuccess).Inc()
	return Normalize(res.Val.([]*discord.Message)), nil
}

// cached is best effort: store failures or undecodable entries count as a miss.
func (s *Message) cached(ctx context.Context, key string) ([]*discord.Message, bool) {
	if s.store == nil {
		return nil, false
	}
	body, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.FromContext(ctx).Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	raw, err := discord.DecodeMessages(body)
	if err != nil {
		logger.FromContext(ctx).Warn("dropping undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	return raw, true
}

func (s *Message) remember(ctx context.Context, key string, body []byte) {
	if s.store == nil {
		return
	}
	if err := s.store.Set(ctx, key, body, s.ttl); err != nil {
		logger.FromContext(ctx).Warn("cache set failed", "key", key, "error", err)
	}
}
