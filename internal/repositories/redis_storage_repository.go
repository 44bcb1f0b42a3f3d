package repositories

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// RedisStorageRepository - локальное хранилище на Redis. Ключи живут без срока годности.
type RedisStorageRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisStorageRepository - конструктор для репозитория.
func NewRedisStorageRepository(client *redis.Client, prefix string) LocalStorageInterface {
	return &RedisStorageRepository{client: client, prefix: prefix}
}

// GetItem получает значение по ключу. Отсутствие ключа не является ошибкой.
func (r *RedisStorageRepository) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetItem сохраняет значение.
func (r *RedisStorageRepository) SetItem(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// RemoveItem удаляет ключи.
func (r *RedisStorageRepository) RemoveItem(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.prefix + k
	}
	return r.client.Del(ctx, prefixed...).Err()
}
