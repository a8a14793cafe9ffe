package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
)

const redisLimiterPrefix = "wms:ratelimit:"

// allowScript atomically checks and charges a window stored as a hash
// {count, score}. The key's TTL is the window; expiry resets it.
// Returns {allowed, count, score, ttlMillis}.
var allowScript = redis.NewScript(`
local key = KEYS[1]
local effLimit = tonumber(ARGV[1])
local scoreLimit = tonumber(ARGV[2])
local complexity = tonumber(ARGV[3])
local windowMillis = tonumber(ARGV[4])

local count = tonumber(redis.call('HGET', key, 'count') or '0')
local score = tonumber(redis.call('HGET', key, 'score') or '0')

if count >= effLimit or score + complexity > scoreLimit then
  local ttl = redis.call('PTTL', key)
  return {0, count, score, ttl}
end

count = redis.call('HINCRBY', key, 'count', 1)
score = redis.call('HINCRBY', key, 'score', complexity)
if count == 1 then
  redis.call('PEXPIRE', key, windowMillis)
end
return {1, count, score, redis.call('PTTL', key)}
`)

// RedisLimiter shares the request budget across instances
type RedisLimiter struct {
	client    *redis.Client
	baseLimit int
	window    time.Duration
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewRedisLimiter creates a Redis-backed rate limiter
func NewRedisLimiter(client *redis.Client, baseLimit int, window time.Duration, logger *logging.Logger, m *metrics.Metrics) *RedisLimiter {
	if baseLimit <= 0 {
		baseLimit = DefaultBaseLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{
		client:    client,
		baseLimit: baseLimit,
		window:    window,
		logger:    logger,
		metrics:   m,
	}
}

// Allow charges the request against the shared window
func (l *RedisLimiter) Allow(ctx context.Context, clientIP, userID string, request *validation.Request) (Decision, error) {
	complexity := Complexity(request)
	effectiveLimit := EffectiveLimit(l.baseLimit, complexity)
	scoreLimit := effectiveLimit * scoreMultiplier

	key := redisLimiterPrefix + identityKey(clientIP, userID)
	raw, err := allowScript.Run(ctx, l.client, []string{key},
		effectiveLimit, scoreLimit, complexity, l.window.Milliseconds()).Result()
	if err != nil {
		if l.logger != nil {
			l.logger.WithError(err).Error("Rate limiter script failed")
		}
		return Decision{}, fmt.Errorf("rate limit check: %w", err)
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) < 4 {
		return Decision{}, fmt.Errorf("rate limit check: unexpected script reply")
	}

	allowed := values[0].(int64) == 1
	count := int(values[1].(int64))
	ttlMillis := values[3].(int64)

	decision := Decision{
		Allowed:        allowed,
		Complexity:     complexity,
		EffectiveLimit: effectiveLimit,
		Remaining:      effectiveLimit - count,
	}
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}
	if !allowed {
		if ttlMillis > 0 {
			decision.RetryAfter = time.Duration(ttlMillis) * time.Millisecond
		}
		if l.metrics != nil {
			l.metrics.RecordRateLimitRejection("composition")
		}
	}
	return decision, nil
}
