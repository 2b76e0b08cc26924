package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx 将事务放入 context
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTx 取出 context 中的事务
func GetTx(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok
}

// Conn 返回当前执行器：context 中有事务则用事务，否则用 db
// 仓储层统一通过它取连接，这样服务层开启的事务可以跨多个仓储
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := GetTx(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// Transactor 事务执行器
type Transactor interface {
	// RunInTransaction 在事务中执行 fn，已处于事务中时直接复用外层事务
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTransactor struct {
	db   *gorm.DB
	opts *sql.TxOptions
}

// NewTransactor 创建基于 gorm 的事务执行器
func NewTransactor(db *gorm.DB, opts ...*sql.TxOptions) Transactor {
	t := &gormTransactor{db: db}
	if len(opts) > 0 {
		t.opts = opts[0]
	}
	return t
}

func (t *gormTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}

	var txOpts []*sql.TxOptions
	if t.opts != nil {
		txOpts = append(txOpts, t.opts)
	}
	// gorm 在 fn 返回错误或 panic 时回滚
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	}, txOpts...)
}
