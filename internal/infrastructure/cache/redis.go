package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scansafe/backend/internal/domain"
)

// RedisStore is a redis-backed product cache for deployments where scans from
// many devices should share one cache
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore connects to redis using a redis:// URL
func NewRedisStore(redisURL string, retention time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisStore{
		client:    redis.NewClient(opt),
		retention: retention,
	}, nil
}

func (s *RedisStore) redisKey(key string) string {
	return "product:" + key
}

// Get retrieves a cached record and its storage time
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.ProductRecord, time.Time, error) {
	payload, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, domain.ErrCacheMiss
		}
		return nil, time.Time{}, fmt.Errorf("redis get: %w", err)
	}

	var stored storedRecord
	if err := json.Unmarshal(payload, &stored); err != nil {
		// unreadable entry, treat as a miss
		return nil, time.Time{}, domain.ErrCacheMiss
	}
	record := stored.Record
	return &record, stored.StoredAt, nil
}

// Put stores the record under key with the configured retention
func (s *RedisStore) Put(ctx context.Context, key string, record *domain.ProductRecord) error {
	payload, err := json.Marshal(storedRecord{Record: *record, StoredAt: time.Now()})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.redisKey(key), payload, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a cached record
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
