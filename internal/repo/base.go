package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base binds a repository to either the pool or an open transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// WithTx returns a copy bound to tx; b itself is unchanged.
func (b Base) WithTx(tx *gorm.DB) Base {
	return Base{db: tx}
}

// DB scopes the connection to ctx. A nil ctx returns the bare connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// First loads the first T matching cond and args, ordered by primary key.
// A miss returns gorm.ErrRecordNotFound.
func First[T any](ctx context.Context, b Base, cond string, args ...any) (*T, error) {
	var row T
	if err := b.DB(ctx).Where(cond, args...).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
