package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOutOfStock       = errors.New("product is out of stock")
	ErrStockExceeded    = errors.New("requested quantity exceeds available stock")
)

type Cart struct {
	gorm.Model
	UserID uint `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	// 已应用的优惠码，每次读取与下单时重新校验
	CouponCode string     `gorm:"column:coupon_code;type:varchar(50)" json:"coupon_code,omitempty"`
	Items      []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	gorm.Model
	CartID    uint             `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint             `gorm:"column:product_id;not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int              `gorm:"column:quantity;not null;default:1" json:"quantity"`
}

func (CartItem) TableName() string { return "cart_items" }

// LineTotal 单行金额，使用商品当前价格而非快照
func (i *CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal 按商品当前价格计算的小计
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// TotalItems 商品件数合计
func (c *Cart) TotalItems() int {
	n := 0
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

// Item 按商品查找行
func (c *Cart) Item(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

type CartRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*Cart, error)
	GetOrCreate(ctx context.Context, userID uint) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	SaveItem(ctx context.Context, item *CartItem) error
	DeleteItem(ctx context.Context, item *CartItem) error
	GetItem(ctx context.Context, userID, itemID uint) (*CartItem, error)
	// ClearItems 删除购物车所有行，订单落库成功后在同一事务内调用
	ClearItems(ctx context.Context, cartID uint) error
	SetCouponCode(ctx context.Context, cartID uint, code string) error
}
