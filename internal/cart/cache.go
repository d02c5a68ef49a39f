package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, userEmail string) (*Cart, error)
	Set(ctx context.Context, userEmail string, c *Cart) error
	Delete(ctx context.Context, userEmail string) error
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisCache{client: client, baseTTL: ttl}
}

func (r *RedisCache) Get(ctx context.Context, userEmail string) (*Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(userEmail)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &c, nil
}

func (r *RedisCache) Set(ctx context.Context, userEmail string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// jitter spreads expiry of carts written together
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, cacheKey(userEmail), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, userEmail string) error {
	if err := r.client.Del(ctx, cacheKey(userEmail)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(userEmail string) string {
	return fmt.Sprintf("cart:%s", userEmail)
}

// NopCache always misses. Used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Cart, error) { return nil, ErrCacheMiss }
func (NopCache) Set(context.Context, string, *Cart) error { return nil }
func (NopCache) Delete(context.Context, string) error { return nil }
