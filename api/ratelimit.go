package api

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; it is reset once exceeded.
const maxTrackedClients = 10000

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	responder Responder
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
}

func newRateLimiter(perMinute, burst int) *rateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		responder: NewResponder(log.With().Str("handlerName", "rateLimiter").Logger()),
		limiters:  make(map[string]*rate.Limiter),
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     burst,
	}
}

func (rl *rateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxTrackedClients {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *rateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !rl.limiterFor(key).Allow() {
			retryAfter := time.Duration(float64(time.Second) / float64(rl.limit))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			rl.responder.logger.Warn().Str("client", key).Str("path", r.URL.Path).Msg("rate limit exceeded")
			rl.responder.WriteError(w, errs.NewRateLimitError("submissions", retryAfter))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the caller's address as seen on the socket. Behind a trusted
// proxy middleware.RealIP has already rewritten RemoteAddr from the proxy
// headers. Anything that does not parse as an IP is "unknown".
func clientIP(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return "unknown"
	}
	return ip.String()
}
