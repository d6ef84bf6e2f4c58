package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotCancellable  = errors.New("order cannot be cancelled in its current state")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrEmptyCart            = errors.New("your cart is empty")
	ErrInvalidTransition    = errors.New("illegal order status transition")
	ErrVerificationFailed   = errors.New("payment verification failed")
	ErrDuplicateOrder       = errors.New("order already processed")
	ErrRefundFailed         = errors.New("refund failed, order not cancelled")
	ErrStockValidationFound = errors.New("some items are no longer available in the requested quantity")
)

// OrderStatus 订单状态
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// BillingDetails 下单时的账单快照字段
type BillingDetails struct {
	FirstName    string `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	Email        string `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone        string `gorm:"column:phone;type:varchar(20)" json:"phone"`
	AddressLine1 string `gorm:"column:address_line1;type:varchar(255)" json:"address_line1"`
	AddressLine2 string `gorm:"column:address_line2;type:varchar(255)" json:"address_line2"`
	City         string `gorm:"column:city;type:varchar(100)" json:"city"`
	State        string `gorm:"column:state;type:varchar(100)" json:"state"`
	Country      string `gorm:"column:country;type:varchar(100)" json:"country"`
	ZipCode      string `gorm:"column:zip_code;type:varchar(20)" json:"zip_code"`
}

// Order 订单。金额与账单信息在创建时定格为不可变快照。
type Order struct {
	gorm.Model
	OrderNumber string `gorm:"column:order_number;type:varchar(36);uniqueIndex;not null" json:"order_number"`
	UserID      uint   `gorm:"column:user_id;index;not null" json:"user_id"`

	BillingDetails

	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"column:shipping_cost;type:decimal(10,2);not null" json:"shipping_cost"`
	Discount     decimal.Decimal `gorm:"column:discount;type:decimal(10,2);not null;default:0" json:"discount"`
	Total        decimal.Decimal `gorm:"column:total;type:decimal(10,2);not null" json:"total"`

	GatewayOrderID   string `gorm:"column:gateway_order_id;type:varchar(100);uniqueIndex" json:"gateway_order_id"`
	GatewayPaymentID string `gorm:"column:gateway_payment_id;type:varchar(100)" json:"gateway_payment_id"`
	IsPaid           bool   `gorm:"column:is_paid;not null;default:false" json:"is_paid"`

	Status OrderStatus `gorm:"column:status;type:varchar(20);index;not null;default:'pending'" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string { return "orders" }

// CanBeCancelled 仅 pending/confirmed 可以取消
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// CanTransitionTo 后台履约状态机：confirmed → shipped → delivered
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	switch o.Status {
	case StatusConfirmed:
		return next == StatusShipped
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}

// OrderItem 订单行快照，商品删除后仍保留名称与价格
type OrderItem struct {
	gorm.Model
	OrderID     uint             `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID   *uint            `gorm:"column:product_id" json:"product_id,omitempty"`
	Product     *catalog.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"product,omitempty"`
	ProductName string           `gorm:"column:product_name;type:varchar(200);not null" json:"product_name"`
	Price       decimal.Decimal  `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Quantity    int              `gorm:"column:quantity;not null;default:1" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }

// LineTotal 行金额，基于下单价格快照
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	CreateItem(ctx context.Context, item *OrderItem) error
	Save(ctx context.Context, order *Order) error
	Get(ctx context.Context, orderID uint) (*Order, error)
	GetByID(ctx context.Context, userID, orderID uint) (*Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) error
}
