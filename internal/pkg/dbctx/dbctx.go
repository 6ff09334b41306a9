package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Transactor runs fn inside a transaction scope. Returning an error from fn rolls the scope back.
// When dbc already carries a transaction the scope nests as a savepoint.
type Transactor interface {
	InTx(dbc Context, fn func(inner Context) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) InTx(dbc Context, fn func(inner Context) error) error {
	base := dbc.Tx
	if base == nil {
		base = t.db
	}
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Context{Ctx: ctx, Tx: tx})
	})
}
