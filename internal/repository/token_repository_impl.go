package repository

import (
	"context"
	"fmt"
	"time"

	domainRepo "beauty-center-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accessTokenPrefix  = "access_token"
	refreshTokenPrefix = "refresh_token"
)

type tokenRepository struct {
	redisClient *redis.Client
}

func NewTokenRepository(redisClient *redis.Client) domainRepo.TokenRepository {
	return &tokenRepository{redisClient: redisClient}
}

func tokenKey(prefix string, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, userID.String(), tokenID)
}

func (r *tokenRepository) StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return r.redisClient.Set(ctx, tokenKey(accessTokenPrefix, userID, tokenID), "valid", ttl).Err()
}

func (r *tokenRepository) StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return r.redisClient.Set(ctx, tokenKey(refreshTokenPrefix, userID, tokenID), "valid", ttl).Err()
}

func (r *tokenRepository) AccessExists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := r.redisClient.Exists(ctx, tokenKey(accessTokenPrefix, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *tokenRepository) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := r.redisClient.Del(ctx, tokenKey(refreshTokenPrefix, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *tokenRepository) RevokeAccess(ctx context.Context, tokenID string) error {
	return r.deleteMatching(ctx, fmt.Sprintf("%s:*:%s", accessTokenPrefix, tokenID))
}

func (r *tokenRepository) RevokeRefresh(ctx context.Context, tokenID string) error {
	return r.deleteMatching(ctx, fmt.Sprintf("%s:*:%s", refreshTokenPrefix, tokenID))
}

func (r *tokenRepository) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := r.deleteMatching(ctx, fmt.Sprintf("%s:%s:*", accessTokenPrefix, userID.String())); err != nil {
		return err
	}
	return r.deleteMatching(ctx, fmt.Sprintf("%s:%s:*", refreshTokenPrefix, userID.String()))
}

// deleteMatching removes every key matching pattern, iterating with SCAN.
func (r *tokenRepository) deleteMatching(ctx context.Context, pattern string) error {
	iter := r.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.redisClient.Del(ctx, keys...).Err()
}
