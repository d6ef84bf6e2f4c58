package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qtremors/amanzon/internal/order/domain"
	"github.com/qtremors/amanzon/pkg/contextx"
)

type orderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) conn(ctx context.Context) *gorm.DB {
	return contextx.TxFrom(ctx, r.db).WithContext(ctx)
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.conn(ctx).Create(order).Error
}

func (r *orderRepository) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	return r.conn(ctx).Create(item).Error
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.conn(ctx).Save(order).Error
}

func (r *orderRepository) Get(ctx context.Context, orderID uint) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx).
		Preload("Items").
		First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	return &order, err
}

func (r *orderRepository) GetByID(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	return &order, err
}

func (r *orderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	var order domain.Order
	err := r.conn(ctx).
		Preload("Items").
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	return &order, err
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.conn(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error {
	return r.conn(ctx).Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}
