package application

import (
	"context"
	"fmt"
	"io"

	"github.com/qtremors/amanzon/internal/catalog/domain"
	"github.com/qtremors/amanzon/pkg/imaging"
	"github.com/qtremors/amanzon/pkg/logger"
)

// ImageStore persists an optimized image and returns its public path.
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type CatalogService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	images     ImageStore
}

func NewCatalogService(products domain.ProductRepository, categories domain.CategoryRepository, images ImageStore) *CatalogService {
	return &CatalogService{products: products, categories: categories, images: images}
}

// Home 首页数据：分类与精选商品
func (s *CatalogService) Home(ctx context.Context) ([]*domain.Category, []*domain.Product, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(categories) > 6 {
		categories = categories[:6]
	}
	featured, err := s.products.Featured(ctx, 8)
	if err != nil {
		return nil, nil, err
	}
	return categories, featured, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, int64, error) {
	return s.products.List(ctx, filter)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// ProductDetail 商品详情及同分类推荐
func (s *CatalogService) ProductDetail(ctx context.Context, slug string) (*domain.Product, []*domain.Product, error) {
	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	related, err := s.products.ListRelated(ctx, product.CategoryID, product.ID, 4)
	if err != nil {
		return nil, nil, err
	}
	return product, related, nil
}

// SaveProduct persists a product, running the uploaded image (if any) through
// the optimization pipeline first. Optimization failures keep the product
// save alive; the image is simply skipped.
func (s *CatalogService) SaveProduct(ctx context.Context, product *domain.Product, image io.Reader, imageName string) error {
	if image != nil {
		data, name, err := imaging.Optimize(image, imageName)
		if err != nil {
			logger.Warn(ctx, "failed to optimize product image, keeping previous image",
				"product", product.Name, "error", err)
		} else {
			path, err := s.images.Save(ctx, name, data)
			if err != nil {
				return fmt.Errorf("failed to store product image: %w", err)
			}
			product.Image = path
		}
	}
	return s.products.Save(ctx, product)
}

func (s *CatalogService) SaveCategory(ctx context.Context, category *domain.Category) error {
	return s.categories.Save(ctx, category)
}
