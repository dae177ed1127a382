package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisCartTTL = 30 * 24 * time.Hour

// RedisPersister keeps each cart as a JSON string under cart:<key>, expiring
// after 30 days without writes.
type RedisPersister struct {
	rdb *redis.Client
}

func NewRedisPersister(addr, password string, db int) *RedisPersister {
	return &RedisPersister{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func cartKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}

func (r *RedisPersister) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisPersister) Load(ctx context.Context, key string) (*Cart, error) {
	data, err := r.rdb.Get(ctx, cartKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return c, nil
}

func (r *RedisPersister) Save(ctx context.Context, key string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, cartKey(key), data, redisCartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *RedisPersister) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, cartKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *RedisPersister) Close() error {
	return r.rdb.Close()
}
