package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "expense:seen:"

// Filter is a Redis-backed fast-path duplicate check. SETNX marks an email as
// seen exactly once across all pipeline instances; the TTL keeps the keyspace
// bounded since the database unique index remains the durable authority.
type Filter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFilter connects to Redis using a URL like redis://host:6379/0
func NewFilter(redisURL string, ttl time.Duration) (*Filter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Filter{client: client, ttl: ttl}, nil
}

// FirstSeen marks the key as seen and reports whether this call was first
func (f *Filter) FirstSeen(ctx context.Context, key string) (bool, error) {
	return f.client.SetNX(ctx, keyPrefix+key, time.Now().Unix(), f.ttl).Result()
}

// Close releases the Redis connection
func (f *Filter) Close() error {
	return f.client.Close()
}
