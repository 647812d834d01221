package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess       = "success"
	outcomeUpstreamError = "upstream_error"
	outcomeFailure       = "failure"

	resultHit  = "hit"
	resultMiss = "miss"
)

var (
	discordRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_requests_total",
			Help: "Outbound Discord message fetches by outcome",
		},
		[]string{"channel_type", "outcome"},
	)

	cacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_cache_total",
			Help: "Message cache lookups by result",
		},
		[]string{"result"},
	)
)
