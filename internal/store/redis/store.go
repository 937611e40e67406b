// Package redis implements the optional shared result-cache tier. It
// mirrors the in-memory cache keying: one JSON-encoded ServiceResult
// per (serviceKey, bucket), expiring with the cache TTL. Failures are
// never stored here either.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/data-tales/datasources/internal/domain"
)

// Store handles Redis operations for cached capabilities results.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// ResultKey builds the storage key for a service key and TTL bucket.
func ResultKey(serviceKey string, bucket int64) string {
	return fmt.Sprintf("ogc:result:%s:%d", serviceKey, bucket)
}

// GetResult retrieves a cached result; a miss returns (nil, nil).
func (s *Store) GetResult(ctx context.Context, serviceKey string, bucket int64) (*domain.ServiceResult, error) {
	data, err := s.client.Get(ctx, ResultKey(serviceKey, bucket)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached result: %w", err)
	}

	var result domain.ServiceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}

// SaveResult stores a successful result with the given TTL.
func (s *Store) SaveResult(ctx context.Context, serviceKey string, bucket int64, result *domain.ServiceResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := s.client.Set(ctx, ResultKey(serviceKey, bucket), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// Ping reports whether the shared tier is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
