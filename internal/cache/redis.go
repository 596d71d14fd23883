package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis is a Cache backed by a shared Redis instance, so that provider
// responses are reused across processes. Errors are logged and degrade to
// cache misses; the verification path never fails on cache trouble.
type Redis struct {
	client *redis.Client
	log    zerolog.Logger
	prefix string
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedis creates a Redis-backed cache from a redis:// URL.
func NewRedis(url string, log zerolog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Redis{
		client: redis.NewClient(opts),
		log:    log.With().Str("component", "cache.redis").Logger(),
		prefix: "sentinel:",
	}, nil
}

// Get returns the cached value if present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		r.misses.Add(1)
		return nil, false
	}
	r.hits.Add(1)
	return val, true
}

// Set stores value under key for ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

// Clear drops all entries under the cache prefix.
func (r *Redis) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.log.Warn().Err(err).Msg("redis del failed")
		}
	}
	if err := iter.Err(); err != nil {
		r.log.Warn().Err(err).Msg("redis scan failed")
	}
}

// Stats returns hit/miss counters. Entry counts are not tracked for Redis;
// DBSIZE would count keys outside this cache's prefix.
func (r *Redis) Stats() Stats {
	return Stats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
