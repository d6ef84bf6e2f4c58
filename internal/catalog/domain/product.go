package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductInactive  = errors.New("product is not available")
)

type Category struct {
	gorm.Model
	Name          string        `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Slug          string        `gorm:"column:slug;type:varchar(100);uniqueIndex;not null" json:"slug"`
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
}

func (Category) TableName() string { return "categories" }

type SubCategory struct {
	gorm.Model
	CategoryID uint   `gorm:"column:category_id;not null;uniqueIndex:idx_subcategory_slug" json:"category_id"`
	Name       string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Slug       string `gorm:"column:slug;type:varchar(100);not null;uniqueIndex:idx_subcategory_slug" json:"slug"`
}

func (SubCategory) TableName() string { return "subcategories" }

type Product struct {
	gorm.Model
	CategoryID    uint            `gorm:"column:category_id;index;not null" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubCategoryID *uint           `gorm:"column:subcategory_id" json:"subcategory_id,omitempty"`
	Name          string          `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Slug          string          `gorm:"column:slug;type:varchar(200);uniqueIndex;not null" json:"slug"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(10,2);index;not null" json:"price"`
	OriginalPrice decimal.Decimal `gorm:"column:original_price;type:decimal(10,2);not null" json:"original_price"`
	Image         string          `gorm:"column:image;type:varchar(255)" json:"image"`
	Stock         int             `gorm:"column:stock;not null;default:0" json:"stock"`
	IsActive      bool            `gorm:"column:is_active;index;not null;default:true" json:"is_active"`
}

func (Product) TableName() string { return "products" }

// DiscountPercent is the markdown against the original price, as a whole percent.
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice.GreaterThan(p.Price) && p.OriginalPrice.IsPositive() {
		return int(p.OriginalPrice.Sub(p.Price).Div(p.OriginalPrice).Mul(decimal.NewFromInt(100)).IntPart())
	}
	return 0
}

func (p *Product) InStock() bool { return p.Stock > 0 }

// SortOrder 商品排序方式
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceLow  SortOrder = "price_low"
	SortPriceHigh SortOrder = "price_high"
	SortName      SortOrder = "name"
)

// ListFilter 商品列表查询条件
type ListFilter struct {
	CategorySlug  string
	SubCategoryID uint
	Query         string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Sort          SortOrder
	Page          int
	PageSize      int
}

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)
	Featured(ctx context.Context, limit int) ([]*Product, error)
	ListRelated(ctx context.Context, categoryID, excludeID uint, limit int) ([]*Product, error)
	// DecrementStock 带下限保护的扣减：stock >= qty 才生效，否则不改动任何行。
	DecrementStock(ctx context.Context, productID uint, qty int) (bool, error)
	IncrementStock(ctx context.Context, productID uint, qty int) error
}

type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}
