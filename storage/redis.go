package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trackifyr/config"
)

type Redis struct {
	client *redis.Client
	prefix string
}

func OpenRedis(ctx context.Context, cfg config.StorageConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return NewRedis(client, cfg.RedisPrefix), nil
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "trackifyr"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(client, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, client, key)
}

func (r *Redis) Get(ctx context.Context, client, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(client, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, client, key, value string) error {
	if err := r.client.Set(ctx, r.key(client, key), value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, client, key string) error {
	if err := r.client.Del(ctx, r.key(client, key)).Err(); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
