package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCode   = errors.New("please enter a coupon code")
	ErrInvalidCode = errors.New("invalid coupon code")
	ErrExpired     = errors.New("this coupon has expired")
	ErrAlreadyUsed = errors.New("you have already used this coupon")
)

type Coupon struct {
	gorm.Model
	Code            string          `gorm:"column:code;type:varchar(50);uniqueIndex;not null" json:"code"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:decimal(5,2);not null" json:"discount_percent"`
	MinOrderAmount  decimal.Decimal `gorm:"column:min_order_amount;type:decimal(10,2);not null;default:0" json:"min_order_amount"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ValidFrom       time.Time       `gorm:"column:valid_from;not null" json:"valid_from"`
	ValidTo         time.Time       `gorm:"column:valid_to;not null" json:"valid_to"`
}

func (Coupon) TableName() string { return "coupons" }

// IsValid 在有效期窗口内且处于激活状态
func (c *Coupon) IsValid(now time.Time) bool {
	return c.IsActive && !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

// CouponUsage 每用户每券至多一次的使用台账
type CouponUsage struct {
	gorm.Model
	CouponID uint  `gorm:"column:coupon_id;not null;uniqueIndex:idx_coupon_user" json:"coupon_id"`
	UserID   uint  `gorm:"column:user_id;not null;uniqueIndex:idx_coupon_user" json:"user_id"`
	OrderID  *uint `gorm:"column:order_id" json:"order_id,omitempty"`
}

func (CouponUsage) TableName() string { return "coupon_usages" }

type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	Save(ctx context.Context, coupon *Coupon) error
	HasUsage(ctx context.Context, couponID, userID uint) (bool, error)
	// RecordUsage 在订单落库事务内写入使用记录
	RecordUsage(ctx context.Context, usage *CouponUsage) error
}
