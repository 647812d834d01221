// Package metrics records per-route and per-feed HTTP metrics for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sociials/logs/shared/domain"
)

// unmatchedRoute labels requests no route claimed, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, feed and status",
		},
		[]string{"method", "route", "feed", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and feed",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "feed"},
	)

	responseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Bytes written per response, after compression",
			Buckets: prometheus.ExponentialBuckets(256, 4, 7),
		},
		[]string{"route"},
	)

	inFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests currently being served",
		},
	)
)

// Middleware records request metrics. Requests to feedRoute are labelled
// with the feed chosen by the feedParam query value; other routes get an
// empty feed label.
func Middleware(feedRoute, feedParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inFlight.Inc()
			defer inFlight.Dec()

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := routePattern(r)
			feed := ""
			if route == feedRoute {
				feed = domain.ParseChannelType(r.URL.Query().Get(feedParam)).String()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			requestsTotal.WithLabelValues(r.Method, route, feed, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(route, feed).Observe(time.Since(start).Seconds())
			responseSize.WithLabelValues(route).Observe(float64(ww.BytesWritten()))
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
