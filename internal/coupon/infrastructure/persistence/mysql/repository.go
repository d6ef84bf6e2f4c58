package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qtremors/amanzon/internal/coupon/domain"
	"github.com/qtremors/amanzon/pkg/contextx"
)

type couponRepository struct{ db *gorm.DB }

func NewCouponRepository(db *gorm.DB) domain.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) conn(ctx context.Context) *gorm.DB {
	return contextx.TxFrom(ctx, r.db).WithContext(ctx)
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	// 大小写不敏感匹配
	err := r.conn(ctx).Where("UPPER(code) = UPPER(?)", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidCode
	}
	return &coupon, err
}

func (r *couponRepository) Save(ctx context.Context, coupon *domain.Coupon) error {
	return r.conn(ctx).Save(coupon).Error
}

func (r *couponRepository) HasUsage(ctx context.Context, couponID, userID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *couponRepository) RecordUsage(ctx context.Context, usage *domain.CouponUsage) error {
	return r.conn(ctx).Create(usage).Error
}
