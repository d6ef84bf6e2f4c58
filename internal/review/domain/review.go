package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Review 商品评价，每个用户对同一商品只能评一次，不可修改
type Review struct {
	gorm.Model
	ProductID uint   `gorm:"column:product_id;not null;uniqueIndex:idx_product_user" json:"product_id"`
	UserID    uint   `gorm:"column:user_id;not null;uniqueIndex:idx_product_user" json:"user_id"`
	Username  string `gorm:"column:username;type:varchar(150);not null" json:"username"`
	Rating    int    `gorm:"column:rating;not null" json:"rating"`
	Comment   string `gorm:"column:comment;type:text" json:"comment"`
}

func (Review) TableName() string { return "reviews" }

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	Exists(ctx context.Context, productID, userID uint) (bool, error)
	ListByProduct(ctx context.Context, productID uint) ([]*Review, error)
}
