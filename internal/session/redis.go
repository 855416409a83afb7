package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "fanaberia"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) sessionKey(id string) string {
	return s.prefix + ":session:" + id
}

func (s *RedisStore) flashKey(id, key string) string {
	return s.prefix + ":flash:" + id + ":" + key
}

func (s *RedisStore) Load(ctx context.Context, id string) (map[string]string, error) {
	raw, err := s.rdb.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	values := make(map[string]string)
	err = json.Unmarshal(raw, &values)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return values, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = s.rdb.Set(ctx, s.sessionKey(id), raw, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	err := s.rdb.Del(ctx, s.sessionKey(id)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) PushFlash(ctx context.Context, id, key, value string, ttl time.Duration) error {
	err := s.rdb.Set(ctx, s.flashKey(id, key), value, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to push flash: %w", err)
	}
	return nil
}

// PopFlash reads and deletes in one GETDEL so concurrent requests cannot both see it.
func (s *RedisStore) PopFlash(ctx context.Context, id, key string) (string, bool, error) {
	value, err := s.rdb.GetDel(ctx, s.flashKey(id, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to pop flash: %w", err)
	}
	return value, true, nil
}
