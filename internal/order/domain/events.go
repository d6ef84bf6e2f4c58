package domain

import (
	"context"
	"time"
)

// 事件类型，作为 Kafka 消息 key，通知 worker 据此分发
const (
	EventOrderConfirmed = "order.confirmed"
	EventOrderCancelled = "order.cancelled"
)

// OrderConfirmedEvent 订单支付成功事件
type OrderConfirmedEvent struct {
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	Total       string    `json:"total"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// OrderCancelledEvent 订单取消事件
type OrderCancelledEvent struct {
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	Refunded    bool      `json:"refunded"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, event OrderConfirmedEvent) error
	PublishOrderCancelled(ctx context.Context, event OrderCancelledEvent) error
}
