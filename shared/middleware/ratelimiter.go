package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sociials/logs/shared/api"
	internal_errors "github.com/sociials/logs/shared/errors"
	"github.com/sociials/logs/shared/utils"
)

// RateLimiter keeps one token bucket per identity. Buckets idle for longer
// than expiration are dropped on the next sweep.
type RateLimiter struct {
	limiters   map[string]*limiterEntry
	mu         sync.Mutex
	rps        rate.Limit
	burst      int
	expiration time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int, expiration time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters:   make(map[string]*limiterEntry),
		rps:        rate.Limit(rps),
		burst:      burst,
		expiration: expiration,
		now:        time.Now,
	}
}

func (rl *RateLimiter) Allow(identity string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.expiration {
		for id, e := range rl.limiters {
			if now.Sub(e.lastSeen) > rl.expiration {
				delete(rl.limiters, id)
			}
		}
		rl.lastSweep = now
	}

	e, ok := rl.limiters[identity]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[identity] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Len reports the number of tracked identities.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func RateLimit(rl *RateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				utils.WriteJSON(w, http.StatusTooManyRequests, api.ErrorResponse{Error: internal_errors.MsgRateLimited})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the real client IP from RemoteAddr
// Does NOT trust X-Real-IP or X-Forwarded-For headers (no reverse proxy)
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// Fallback: if RemoteAddr doesn't have port, use it directly
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("invalid IP address: %s", ip),
			StatusCode: http.StatusBadRequest,
		}
	}

	return ip, nil
}
