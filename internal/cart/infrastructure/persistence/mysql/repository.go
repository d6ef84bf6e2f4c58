package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qtremors/amanzon/internal/cart/domain"
	"github.com/qtremors/amanzon/pkg/contextx"
)

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) conn(ctx context.Context) *gorm.DB {
	return contextx.TxFrom(ctx, r.db).WithContext(ctx)
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.conn(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCartNotFound
	}
	return &cart, err
}

func (r *cartRepository) GetOrCreate(ctx context.Context, userID uint) (*domain.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, err
	}

	cart = &domain.Cart{UserID: userID}
	if err := r.conn(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.conn(ctx).Save(cart).Error
}

func (r *cartRepository) SaveItem(ctx context.Context, item *domain.CartItem) error {
	return r.conn(ctx).Save(item).Error
}

func (r *cartRepository) DeleteItem(ctx context.Context, item *domain.CartItem) error {
	return r.conn(ctx).Delete(item).Error
}

func (r *cartRepository) GetItem(ctx context.Context, userID, itemID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.conn(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		Preload("Product").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCartItemNotFound
	}
	return &item, err
}

func (r *cartRepository) ClearItems(ctx context.Context, cartID uint) error {
	return r.conn(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error
}

func (r *cartRepository) SetCouponCode(ctx context.Context, cartID uint, code string) error {
	return r.conn(ctx).Model(&domain.Cart{}).
		Where("id = ?", cartID).
		Update("coupon_code", code).Error
}
