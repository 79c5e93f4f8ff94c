package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"medbook/config"
	"medbook/internal/domain"
)

const scanBatch = 100

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	const op = "cache.NewRedisCache"

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisCache{client: client, ttl: cfg.AvailabilityTTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, doctorID, clinicID int64, date string) ([]domain.TimeSlot, bool, error) {
	const op = "cache.RedisCache.Get"

	data, err := c.client.Get(ctx, availabilityKey(doctorID, clinicID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, fmt.Errorf("%s: decode: %w", op, err)
	}
	return slots, true, nil
}

func (c *RedisCache) Set(ctx context.Context, doctorID, clinicID int64, date string, slots []domain.TimeSlot) error {
	const op = "cache.RedisCache.Set"

	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	if err := c.client.Set(ctx, availabilityKey(doctorID, clinicID, date), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *RedisCache) InvalidateDate(ctx context.Context, doctorID, clinicID int64, date string) error {
	const op = "cache.RedisCache.InvalidateDate"

	if err := c.client.Del(ctx, availabilityKey(doctorID, clinicID, date)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *RedisCache) InvalidateDoctor(ctx context.Context, doctorID int64) error {
	const op = "cache.RedisCache.InvalidateDoctor"

	var keys []string
	iter := c.client.Scan(ctx, 0, doctorPattern(doctorID), scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%s: scan: %w", op, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
