package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qtremors/amanzon/internal/catalog/domain"
	"github.com/qtremors/amanzon/pkg/contextx"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) conn(ctx context.Context) *gorm.DB {
	return contextx.TxFrom(ctx, r.db).WithContext(ctx)
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.conn(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.conn(ctx).Preload("Category").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	return &product, err
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var product domain.Product
	err := r.conn(ctx).Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	return &product, err
}

func (r *productRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, int64, error) {
	query := r.conn(ctx).Model(&domain.Product{}).Where("is_active = ?", true)

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.SubCategoryID != 0 {
		query = query.Where("subcategory_id = ?", filter.SubCategoryID)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case domain.SortPriceLow:
		query = query.Order("price ASC")
	case domain.SortPriceHigh:
		query = query.Order("price DESC")
	case domain.SortName:
		query = query.Order("products.name ASC")
	default:
		query = query.Order("products.created_at DESC")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 12
	}

	var products []*domain.Product
	err := query.Preload("Category").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.conn(ctx).Preload("Category").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepository) ListRelated(ctx context.Context, categoryID, excludeID uint, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.conn(ctx).
		Where("category_id = ? AND is_active = ? AND id <> ?", categoryID, true, excludeID).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepository) DecrementStock(ctx context.Context, productID uint, qty int) (bool, error) {
	res := r.conn(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepository) IncrementStock(ctx context.Context, productID uint, qty int) error {
	return r.conn(ctx).Model(&domain.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) conn(ctx context.Context) *gorm.DB {
	return contextx.TxFrom(ctx, r.db).WithContext(ctx)
}

func (r *categoryRepository) Save(ctx context.Context, category *domain.Category) error {
	return r.conn(ctx).Save(category).Error
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var category domain.Category
	err := r.conn(ctx).Preload("SubCategories").Where("slug = ?", slug).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCategoryNotFound
	}
	return &category, err
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.conn(ctx).Preload("SubCategories").Order("name ASC").Find(&categories).Error
	return categories, err
}
