package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gstrate/internal/config"
	"gstrate/internal/domain"
)

const (
	rateKeyPrefix = "gst:rate:"
	scanBatch     = 100
)

// RedisCache is a RateCache shared by every service instance. Redis errors
// are logged and treated as a miss or a skipped write so that resolution
// keeps working when Redis is down.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisClient creates a go-redis client from cache settings.
func NewRedisClient(cfg *config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// NewRedisCache creates a RedisCache over client. A zero ttl uses DefaultTTL
// and a nil clock uses time.Now.
func NewRedisCache(client *redis.Client, ttl time.Duration, now func() time.Time) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &RedisCache{client: client, ttl: ttl, now: now}
}

func (c *RedisCache) Get(ctx context.Context, hsn string) (*domain.CacheEntry, bool) {
	data, err := c.client.Get(ctx, rateKeyPrefix+hsn).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("cache.RedisCache: get %s failed: %v", hsn, err)
		return nil, false
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("cache.RedisCache: corrupt entry for %s: %v", hsn, err)
		return nil, false
	}
	if entry.Expired(c.now(), c.ttl) {
		return nil, false
	}
	return &entry, true
}

// Set writes the entry with the cache TTL as the Redis key expiry.
func (c *RedisCache) Set(ctx context.Context, hsn string, entry domain.CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("cache.RedisCache: marshal %s failed: %v", hsn, err)
		return
	}
	if err := c.client.Set(ctx, rateKeyPrefix+hsn, data, c.ttl).Err(); err != nil {
		log.Printf("cache.RedisCache: set %s failed: %v", hsn, err)
	}
}

func (c *RedisCache) Clear(ctx context.Context) error {
	keys, err := c.keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting rate keys: %w", err)
	}
	return nil
}

func (c *RedisCache) Stats(ctx context.Context) (*domain.CacheStats, error) {
	keys, err := c.keys(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.CacheStats{Entries: make([]domain.CacheStatsEntry, 0, len(keys))}
	if len(keys) == 0 {
		return stats, nil
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading rate keys: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue // expired between SCAN and MGET
		}
		var entry domain.CacheEntry
		if err := json.Unmarshal([]byte(s), &entry); err != nil {
			continue
		}
		stats.Entries = append(stats.Entries, domain.CacheStatsEntry{
			HSN:      strings.TrimPrefix(keys[i], rateKeyPrefix),
			CachedAt: entry.CachedAt,
		})
	}
	stats.Size = len(stats.Entries)
	sortStats(stats)
	return stats, nil
}

func (c *RedisCache) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, rateKeyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning rate keys: %w", err)
	}
	return keys, nil
}

// PingContext reports whether Redis is reachable.
func (c *RedisCache) PingContext(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
