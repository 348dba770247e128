package utils

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
)

type RedisConfig struct {
	RedisUrl string `env:"REDIS_URL"`
}

func ProvideRedis(config *RedisConfig) (*redis.Client, error) {
	options, err := redis.ParseURL(config.RedisUrl)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	_, err = client.Ping(client.Context()).Result()
	if err != nil {
		return nil, err
	}

	return client, nil
}

// ProvideLimiterStorage returns a redis backed fiber.Storage, or nil when no
// redis is configured so that fiber falls back to its in-memory store.
func ProvideLimiterStorage(config *RedisConfig) (fiber.Storage, error) {
	if config.RedisUrl == "" {
		return nil, nil
	}

	client, err := ProvideRedis(config)
	if err != nil {
		return nil, err
	}

	return NewRedisStorage(client), nil
}

// RedisStorage implements fiber.Storage on top of a redis client.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

func (r *RedisStorage) Get(key string) ([]byte, error) {
	val, err := r.client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (r *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if len(key) == 0 || len(val) == 0 {
		return nil
	}
	return r.client.Set(context.Background(), key, val, exp).Err()
}

func (r *RedisStorage) Delete(key string) error {
	return r.client.Del(context.Background(), key).Err()
}

func (r *RedisStorage) Reset() error {
	return r.client.FlushDB(context.Background()).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
