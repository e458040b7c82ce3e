package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restoadmin/utils"
	"golang.org/x/time/rate"
)

var errTooManyRequests = errors.New("too many requests, please slow down")

// RateLimiter is an in-process sliding window per client IP. It is used when
// Redis is not available.
type RateLimiter struct {
	rate      int
	interval  time.Duration
	ips       map[string][]time.Time
	lastSweep time.Time
	mu        sync.Mutex
}

func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	if rate <= 0 {
		rate = 50
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &RateLimiter{
		rate:     rate,
		interval: interval,
		ips:      make(map[string][]time.Time),
	}
}

// Allow records a request from key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.interval)
	if now.Sub(rl.lastSweep) > rl.interval {
		rl.sweep(cutoff)
		rl.lastSweep = now
	}
	valid := rl.ips[key][:0]
	for _, t := range rl.ips[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.rate {
		rl.ips[key] = valid
		return false
	}
	rl.ips[key] = append(valid, now)
	return true
}

// sweep drops clients with no request after cutoff.
func (rl *RateLimiter) sweep(cutoff time.Time) {
	for ip, hits := range rl.ips {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(rl.ips, ip)
		}
	}
}

// Clients reports how many clients are tracked.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.ips)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			utils.AbortWithError(c, http.StatusTooManyRequests, errTooManyRequests)
			return
		}
		c.Next()
	}
}

// StrictRateLimiter guards sensitive endpoints such as login: a token bucket
// of burst requests refilled once per every, per client IP.
type StrictRateLimiter struct {
	every     time.Duration
	burst     int
	idle      time.Duration
	limiters  map[string]*strictClient
	lastSweep time.Time
	mu        sync.Mutex
}

type strictClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewStrictLimiter(every time.Duration, burst int) *StrictRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &StrictRateLimiter{
		every: every,
		burst: burst,
		// an idle bucket is full again after burst*every
		idle:     time.Duration(burst) * every,
		limiters: make(map[string]*strictClient),
	}
}

// NewStrictRateLimiter returns the middleware of a new StrictRateLimiter.
func NewStrictRateLimiter(every time.Duration, burst int) gin.HandlerFunc {
	return NewStrictLimiter(every, burst).RateLimit()
}

func (sl *StrictRateLimiter) Allow(ip string) bool {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	now := time.Now()
	if now.Sub(sl.lastSweep) > sl.idle {
		for key, cl := range sl.limiters {
			if now.Sub(cl.lastSeen) > sl.idle {
				delete(sl.limiters, key)
			}
		}
		sl.lastSweep = now
	}

	cl, ok := sl.limiters[ip]
	if !ok {
		cl = &strictClient{limiter: rate.NewLimiter(rate.Every(sl.every), sl.burst)}
		sl.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// Clients reports how many clients are tracked.
func (sl *StrictRateLimiter) Clients() int {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return len(sl.limiters)
}

func (sl *StrictRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sl.Allow(c.ClientIP()) {
			utils.AbortWithError(c, http.StatusTooManyRequests, errors.New("too many attempts, please wait a moment"))
			return
		}
		c.Next()
	}
}

// RedisRateLimiter is a fixed window counter shared by every instance of the
// service.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
}

var redisFixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if limit <= 0 {
		limit = 50
	}
	if window <= 0 {
		window = time.Second
	}
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// RateLimit fails open: a Redis outage is logged and the request proceeds.
func (rl *RedisRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := rl.incr(c.Request.Context(), rl.prefix+":"+c.ClientIP())
		if err != nil {
			utils.ErrorLogger.Warnf("redis rate limiter error: %v", err)
			c.Next()
			return
		}
		if count > int64(rl.limit) {
			utils.AbortWithError(c, http.StatusTooManyRequests, errTooManyRequests)
			return
		}
		c.Next()
	}
}

func (rl *RedisRateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := redisFixedWindowScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// NewGlobalRateLimit picks the Redis limiter when a client is available.
func NewGlobalRateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if rdb != nil {
		return NewRedisRateLimiter(rdb, limit, window, "restoadmin:rl").RateLimit()
	}
	return NewRateLimiter(limit, window).RateLimit()
}
