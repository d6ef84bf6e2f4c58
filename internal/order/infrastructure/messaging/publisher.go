package messaging

import (
	"context"

	"github.com/qtremors/amanzon/internal/order/domain"
	"github.com/qtremors/amanzon/pkg/mq"
)

// KafkaEventPublisher 将订单事件发往 Kafka，消息 key 为事件类型，
// 通知 worker 按 key 分发处理。
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishOrderConfirmed(ctx context.Context, event domain.OrderConfirmedEvent) error {
	return p.producer.SendMessage(ctx, p.topic, domain.EventOrderConfirmed, event)
}

func (p *KafkaEventPublisher) PublishOrderCancelled(ctx context.Context, event domain.OrderCancelledEvent) error {
	return p.producer.SendMessage(ctx, p.topic, domain.EventOrderCancelled, event)
}
