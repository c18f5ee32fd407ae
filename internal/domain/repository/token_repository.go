package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenRepository tracks issued tokens so they can be revoked before expiry.
type TokenRepository interface {
	StoreAccess(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	StoreRefresh(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	AccessExists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	// ConsumeRefresh deletes the refresh token and reports whether it existed.
	ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	RevokeAccess(ctx context.Context, tokenID string) error
	RevokeRefresh(ctx context.Context, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
