package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/qtremors/amanzon/internal/review/domain"
	"github.com/qtremors/amanzon/pkg/contextx"
)

type reviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) conn(ctx context.Context) *gorm.DB {
	return contextx.TxFrom(ctx, r.db).WithContext(ctx)
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.conn(ctx).Create(review).Error
}

func (r *reviewRepository) Exists(ctx context.Context, productID, userID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&domain.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint) ([]*domain.Review, error) {
	var reviews []*domain.Review
	err := r.conn(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
