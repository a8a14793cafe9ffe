package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Joaovenera/wms-sub000/internal/validation"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
	"github.com/Joaovenera/wms-sub000/pkg/metrics"
)

const (
	redisKeyPrefix = "wms:validation:"
	redisDepPrefix = "wms:validation-dep:"
)

type redisEnvelope struct {
	Checksum uint64             `json:"checksum"`
	StoredAt time.Time          `json:"storedAt"`
	Scope    string             `json:"scope"`
	Result   *validation.Result `json:"result"`
}

// RedisStore is the shared cache for multi-instance deployments.
// Redis expiry enforces the TTL; the checksum gate still applies on
// every read. Redis failures degrade to cache misses, never to
// request failures.
type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *logging.Logger
	metrics *metrics.Metrics
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewRedisStore creates a Redis-backed result cache
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *logging.Logger, m *metrics.Metrics) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

// Get returns a usable entry, applying the checksum gate
func (s *RedisStore) Get(ctx context.Context, key string, checksum uint64) (*validation.Result, bool) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil && s.logger != nil {
			s.logger.WithError(err).Warn("Redis cache read failed")
		}
		return s.miss()
	}

	var envelope redisEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return s.miss()
	}
	if envelope.Checksum != checksum {
		return s.miss()
	}

	s.hits.Add(1)
	if s.metrics != nil {
		s.metrics.RecordCacheLookup("redis", true)
	}
	return envelope.Result, true
}

func (s *RedisStore) miss() (*validation.Result, bool) {
	s.misses.Add(1)
	if s.metrics != nil {
		s.metrics.RecordCacheLookup("redis", false)
	}
	return nil, false
}

// Set stores a result and indexes its dependencies for invalidation
func (s *RedisStore) Set(ctx context.Context, key string, checksum uint64, result *validation.Result) {
	envelope := redisEnvelope{
		Checksum: checksum,
		StoredAt: time.Now().UTC(),
		Scope:    scopeOf(key),
		Result:   result,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, redisKeyPrefix+key, payload, s.ttl)
	for _, dep := range dependenciesOf(key) {
		depKey := redisDepPrefix + dep
		pipe.SAdd(ctx, depKey, key)
		pipe.Expire(ctx, depKey, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("Redis cache write failed")
	}
}

// Stats returns local hit counters and the current entry count
func (s *RedisStore) Stats(ctx context.Context) Stats {
	stats := Stats{
		Capacity: -1, // bounded by Redis memory policy, not an entry count
		Hits:     s.hits.Load(),
		Misses:   s.misses.Load(),
	}

	keys, err := s.scanKeys(ctx, redisKeyPrefix+"*")
	if err == nil {
		stats.Entries = len(keys)
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// Clear drops all entries in the given scope
func (s *RedisStore) Clear(ctx context.Context, scope string) int {
	keys, err := s.scanKeys(ctx, redisKeyPrefix+"*")
	if err != nil {
		return 0
	}

	removed := 0
	for _, key := range keys {
		if scope != "" && scope != ScopeAll {
			if scopeOf(key[len(redisKeyPrefix):]) != scope {
				continue
			}
		}
		if s.client.Del(ctx, key).Val() > 0 {
			removed++
		}
	}
	return removed
}

// InvalidateDependency drops entries referencing the dependency via
// the dependency index sets maintained on write.
func (s *RedisStore) InvalidateDependency(ctx context.Context, dependency string, cascade bool) int {
	keys, err := s.client.SMembers(ctx, redisDepPrefix+dependency).Result()
	if err != nil {
		return 0
	}

	targets := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		targets[key] = struct{}{}
		if !cascade {
			continue
		}
		for _, dep := range dependenciesOf(key) {
			related, err := s.client.SMembers(ctx, redisDepPrefix+dep).Result()
			if err != nil {
				continue
			}
			for _, r := range related {
				targets[r] = struct{}{}
			}
		}
	}

	removed := 0
	for key := range targets {
		if s.client.Del(ctx, redisKeyPrefix+key).Val() > 0 {
			removed++
		}
	}
	s.client.Del(ctx, redisDepPrefix+dependency)
	return removed
}

func (s *RedisStore) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}
