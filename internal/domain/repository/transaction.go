package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager hands out database handles bound to a request context.
type TxManager interface {
	// Conn returns a non-transactional handle for reads.
	Conn(ctx context.Context) *gorm.DB
	// Do runs fn in a transaction, committing when fn returns nil.
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}
