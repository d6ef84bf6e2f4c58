package domain

import (
	"context"

	"gorm.io/gorm"

	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
)

// WishlistItem 收藏项，(user, product) 唯一
type WishlistItem struct {
	gorm.Model
	UserID    uint             `gorm:"column:user_id;not null;uniqueIndex:idx_user_product" json:"user_id"`
	ProductID uint             `gorm:"column:product_id;not null;uniqueIndex:idx_user_product" json:"product_id"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }

type WishlistRepository interface {
	Add(ctx context.Context, item *WishlistItem) error
	Remove(ctx context.Context, userID, productID uint) error
	Contains(ctx context.Context, userID, productID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*WishlistItem, error)
}
