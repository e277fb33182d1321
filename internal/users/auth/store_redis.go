// Copyright (c) 2026 TaskHive. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskhive/taskhive/internal/platform/apperr"
	"github.com/taskhive/taskhive/internal/platform/constants"
)

// RedisResetTokenRepository stores password-reset tokens in Redis with a TTL.
// Redis expires entries server-side, so an expired token is indistinguishable
// from one that never existed.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewRedisResetTokenRepository creates a [RedisResetTokenRepository].
func NewRedisResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

func (repo *RedisResetTokenRepository) Set(ctx context.Context, token, accountID string, timeToLive time.Duration) error {
	key := constants.RedisPrefixResetToken + token

	if err := repo.client.Set(ctx, key, accountID, timeToLive).Err(); err != nil {
		return fmt.Errorf("set_reset_token_failed: %w", err)
	}
	return nil
}

func (repo *RedisResetTokenRepository) Get(ctx context.Context, token string) (string, error) {
	key := constants.RedisPrefixResetToken + token

	accountID, err := repo.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Reset token")
		}
		return "", fmt.Errorf("get_reset_token_failed: %w", err)
	}
	return accountID, nil
}

func (repo *RedisResetTokenRepository) Delete(ctx context.Context, token string) error {
	key := constants.RedisPrefixResetToken + token

	if err := repo.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete_reset_token_failed: %w", err)
	}
	return nil
}
