// Package contextx 在 context 中传递事务句柄，使仓储层对事务透明
package contextx

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx 将事务句柄注入 context
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom 从 context 中取出事务句柄，没有则返回 fallback
func TxFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback
}
