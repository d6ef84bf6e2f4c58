package application

import (
	"context"

	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	"github.com/qtremors/amanzon/internal/wishlist/domain"
)

type WishlistService struct {
	items    domain.WishlistRepository
	products catalog.ProductRepository
}

func NewWishlistService(items domain.WishlistRepository, products catalog.ProductRepository) *WishlistService {
	return &WishlistService{items: items, products: products}
}

// Toggle 收藏开关。已收藏则移除，返回最新的收藏状态。
func (s *WishlistService) Toggle(ctx context.Context, userID, productID uint) (bool, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return false, err
	}

	present, err := s.items.Contains(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if present {
		return false, s.items.Remove(ctx, userID, productID)
	}
	return true, s.items.Add(ctx, &domain.WishlistItem{UserID: userID, ProductID: productID})
}

// List 收藏列表，带商品信息
func (s *WishlistService) List(ctx context.Context, userID uint) ([]*domain.WishlistItem, error) {
	return s.items.ListByUser(ctx, userID)
}
