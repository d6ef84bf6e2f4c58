package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/qtremors/amanzon/internal/wishlist/domain"
	"github.com/qtremors/amanzon/pkg/contextx"
)

type wishlistRepository struct{ db *gorm.DB }

func NewWishlistRepository(db *gorm.DB) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) conn(ctx context.Context) *gorm.DB {
	return contextx.TxFrom(ctx, r.db).WithContext(ctx)
}

func (r *wishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	return r.conn(ctx).Create(item).Error
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID uint) error {
	return r.conn(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.WishlistItem{}).Error
}

func (r *wishlistRepository) Contains(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.WishlistItem, error) {
	var items []*domain.WishlistItem
	err := r.conn(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
