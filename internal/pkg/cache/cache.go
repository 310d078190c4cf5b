package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin read-through cache over redis. A nil *Cache is a valid
// no-op, so callers never need to branch on whether redis is configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis and returns a ready cache, or an error if the
// server cannot be reached. Callers that can live without a cache pass
// the nil result on.
func New(addr, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// GetJSON unmarshals the cached value into dest. Returns false on miss,
// on any redis error, or when the cache is nil.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, c.ttl)
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

func AvailabilityKey(fieldID int64, date string) string {
	return fmt.Sprintf("avail:%d:%s", fieldID, date)
}

func FieldStatsKey(fieldID int64) string {
	return fmt.Sprintf("fieldstats:%d", fieldID)
}
