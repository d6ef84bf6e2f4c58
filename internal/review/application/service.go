package application

import (
	"context"
	"strings"

	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	"github.com/qtremors/amanzon/internal/review/domain"
)

type ReviewService struct {
	reviews  domain.ReviewRepository
	products catalog.ProductRepository
}

func NewReviewService(reviews domain.ReviewRepository, products catalog.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// Create 发表评价。商品必须存在，评分 1 到 5，每人每商品一条。
func (s *ReviewService) Create(ctx context.Context, userID uint, username string, productID uint, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	exists, err := s.reviews.Exists(ctx, productID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyReviewed
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    userID,
		Username:  username,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProduct 商品的全部评价
func (s *ReviewService) ListByProduct(ctx context.Context, productID uint) ([]*domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}
