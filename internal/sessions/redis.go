package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
func NewRedisStore(redisURL string) (Store, error) {
	const op = "sessions.NewRedisStore"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &redisStore{rdb: rdb}, nil
}

func (s *redisStore) SaveRefreshToken(ctx context.Context, identity, token string, ttl time.Duration) error {
	const op = "sessions.SaveRefreshToken"

	if err := s.rdb.Set(ctx, refreshKey(identity), token, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *redisStore) RefreshTokenByIdentity(ctx context.Context, identity string) (string, error) {
	const op = "sessions.RefreshTokenByIdentity"

	val, err := s.rdb.Get(ctx, refreshKey(identity)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return val, nil
}

func (s *redisStore) DeleteRefreshToken(ctx context.Context, identity string) error {
	const op = "sessions.DeleteRefreshToken"

	// DEL по несуществующему ключу — no-op, удаление идемпотентно.
	if err := s.rdb.Del(ctx, refreshKey(identity)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *redisStore) BlacklistAccessToken(ctx context.Context, accessToken string, ttl time.Duration) error {
	const op = "sessions.BlacklistAccessToken"

	if err := s.rdb.Set(ctx, blacklistKey(accessToken), revokedMarker, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *redisStore) IsBlacklisted(ctx context.Context, accessToken string) (bool, error) {
	const op = "sessions.IsBlacklisted"

	n, err := s.rdb.Exists(ctx, blacklistKey(accessToken)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

func (s *redisStore) Close() error { return s.rdb.Close() }
