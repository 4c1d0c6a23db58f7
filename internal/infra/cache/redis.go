package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"aperture/internal/domain"
	"aperture/internal/usecase"
)

// Redis backs the verification cache for multi-instance deployments, where
// the verdict for a repeated bundle should not depend on which instance saw
// it first.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	return &Redis{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}, nil
}

func (c *Redis) Get(ctx context.Context, key string) (*domain.VerificationResult, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var value domain.VerificationResult
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, false, err
	}
	return &value, true, nil
}

func (c *Redis) Put(ctx context.Context, key string, value domain.VerificationResult, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

var _ usecase.VerificationCache = (*Redis)(nil)
