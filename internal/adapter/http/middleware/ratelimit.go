package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskhub/internal/adapter/http/helper"
	"taskhub/internal/core/model/response"
	"taskhub/internal/core/telemetry"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
)

const defaultRule = "default"

// RateLimitStore counts hits per key inside a fixed window.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

// MemoryStore keeps counters in process. Suitable for a single instance.
type MemoryStore struct {
	cache *cache.Cache
	mutex sync.Mutex
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(5*time.Minute, 10*time.Minute),
		now:   time.Now,
	}
}

func (ms *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := ms.now()

	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if item, found := ms.cache.Get(key); found {
		entry := item.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			entry.Count++
			ms.cache.Set(key, entry, entry.ResetTime.Sub(now))
			return entry.Count, entry.ResetTime, nil
		}
	}

	entry := rateLimitEntry{Count: 1, ResetTime: now.Add(window)}
	ms.cache.Set(key, entry, window)

	return entry.Count, entry.ResetTime, nil
}

// RedisStore shares counters between instances with INCR and EXPIRE.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "taskhub:"}
}

func (rs *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	redisKey := rs.prefix + key

	count, err := rs.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	if count == 1 {
		if err := rs.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return 0, time.Time{}, err
		}

		return 1, time.Now().Add(window), nil
	}

	ttl, err := rs.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	// a key left without expiry by a failed EXPIRE would never reset
	if ttl < 0 {
		if err := rs.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		ttl = window
	}

	return int(count), time.Now().Add(ttl), nil
}

// RateLimiter applies the rule registered for "METHOD /route/pattern", or
// the default rule. Per-user rules key on the authenticated user, so the
// middleware must run after AuthMiddleware on protected routes.
type RateLimiter struct {
	store   RateLimitStore
	rules   map[string]config.RateLimitConfig
	logger  *logger.Logger
	metrics *telemetry.AppMetrics
}

func NewRateLimiter(store RateLimitStore, rules map[string]config.RateLimitConfig, log *logger.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		store:   store,
		rules:   rules,
		logger:  log,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		methodPath := c.Request.Method + " " + c.FullPath()

		rule, ok := rl.rules[methodPath]
		if !ok {
			rule, ok = rl.rules[defaultRule]
		}
		if !ok || rule.Requests <= 0 {
			c.Next()
			return
		}

		identifier, keyType := rl.identify(c, rule)
		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, identifier)

		count, resetAt, err := rl.store.Increment(ctx, key, rule.Window)
		if err != nil {
			rl.logger.Ctx(ctx).Error("Rate limit check failed",
				zap.String("key", key),
				zap.Error(err))
			c.Next()
			return
		}

		remaining := rule.Requests - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > rule.Requests {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(ctx, c.FullPath(), keyType)
			}

			rl.logger.Ctx(ctx).Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", rule.Requests),
				zap.Duration("window", rule.Window))

			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			helper.SendError(c, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", []response.ValidationError{
				{Field: "request", Message: fmt.Sprintf("Too many requests. Limit: %d per %v", rule.Requests, rule.Window)},
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(ctx, c.FullPath(), keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) identify(c *gin.Context, rule config.RateLimitConfig) (string, string) {
	if rule.PerUser {
		if userID, ok := CurrentUserID(c); ok {
			return "user_" + userID.String(), "user"
		}
	}

	return "ip_" + c.ClientIP(), "ip"
}
