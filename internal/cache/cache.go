// Package cache stores encoded images keyed by request and entity content.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rmitchellscott/hass-render/internal/entity"
)

const keyPrefix = "hass-render/png/"

// Cache is a byte store for rendered PNGs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// RedisCache implements Cache on a Redis server.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr. Call Ping to check the connection.
func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb, ttl: ttl}
}

// Ping tests the Redis connection.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get key %s from Redis: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, keyPrefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in Redis: %w", key, err)
	}
	return nil
}

// Delete removes one entry.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}

// Close closes the Redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Noop is the Cache used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error         { return nil }
func (Noop) Close() error                                      { return nil }

type keyRecord struct {
	EntityID     string         `json:"id"`
	FriendlyName string         `json:"name,omitempty"`
	State        string         `json:"state"`
	Unavailable  bool           `json:"unavailable,omitempty"`
	Attributes   map[string]any `json:"attrs,omitempty"`
	LastChanged  time.Time      `json:"changed"`
}

// Key derives a cache key from the render mode, the request parameters (size,
// bit depth and title) and the fetched records. Two requests share a key only when they would paint
// the same image.
func Key(mode string, params []string, records []entity.Record) string {
	h := sha256.New()
	enc := json.NewEncoder(h)

	_ = enc.Encode(mode)
	_ = enc.Encode(params)
	for _, r := range records {
		// Maps are encoded with sorted keys, so attribute order does not matter.
		if err := enc.Encode(keyRecord{
			EntityID:     r.EntityID,
			FriendlyName: r.FriendlyName,
			State:        r.State,
			Unavailable:  r.Unavailable,
			Attributes:   r.Attributes,
			LastChanged:  r.LastChanged.UTC(),
		}); err != nil {
			// Unencodable attributes still contribute their identity.
			fmt.Fprintf(h, "%s|%s|%v\n", r.EntityID, r.State, r.Unavailable)
		}
	}
	return mode + "/" + hex.EncodeToString(h.Sum(nil))
}
