package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/i18n"
)

// Limiter decides whether one more request for key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is a sliding-window limiter for single-instance deployments.
type MemoryLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	var recent []time.Time
	for _, at := range l.requests[key] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}

	if len(recent) >= l.limit {
		l.requests[key] = recent
		return false, nil
	}

	l.requests[key] = append(recent, now)
	return true, nil
}

// Cleanup drops keys without requests in the last two windows.
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-2 * l.window)
	for key, requests := range l.requests {
		if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
			delete(l.requests, key)
		}
	}
}

// CleanupLoop runs Cleanup every interval until ctx is done.
func (l *MemoryLimiter) CleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return allowed
`)

// RedisLimiter is a token bucket shared by every instance. The bucket holds
// limit tokens and regains one every window/limit.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	interval := l.window / time.Duration(l.limit)
	ttl := int64(2 * l.window / time.Second)
	if ttl < 1 {
		ttl = 1
	}

	allowed, err := tokenBucketScript.Run(ctx, l.rdb,
		[]string{fmt.Sprintf("%s:ratelimit:%s", l.prefix, key)},
		l.now().UnixMilli(), l.limit, interval.Milliseconds(), ttl,
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	return allowed == 1, nil
}

// RateLimit limits requests per client address. The address is the
// connection's, or the first IP in trustedHeader when that header is set by a
// proxy in front of the app. The wider header list used by ClientIP is client
// controlled and never keys the limiter. Limiter failures let the request
// through.
func RateLimit(limiter Limiter, window time.Duration, trustedHeader string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := rateLimitIP(r, trustedHeader)

			allowed, err := limiter.Allow(r.Context(), "auth:"+ip)
			if err != nil {
				slog.Warn("rate limiter unavailable", "error", err)
				next(w, r)
				return
			}

			if !allowed {
				slog.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, i18n.T(ctxkeys.Locale(r.Context()), "auth.error.rate_limited"), http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

func rateLimitIP(r *http.Request, trustedHeader string) string {
	if trustedHeader != "" {
		for _, candidate := range headerIPs(http.CanonicalHeaderKey(trustedHeader), r.Header.Get(trustedHeader)) {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}
	return remoteIP(r)
}
