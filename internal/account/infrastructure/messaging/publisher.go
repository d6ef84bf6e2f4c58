package messaging

import (
	"context"

	"github.com/qtremors/amanzon/internal/account/domain"
	"github.com/qtremors/amanzon/pkg/mq"
)

// KafkaEventPublisher 账户事件发往 Kafka，消息 key 为事件类型
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishVerification(ctx context.Context, event domain.AccountVerificationEvent) error {
	return p.producer.SendMessage(ctx, p.topic, domain.EventAccountVerification, event)
}

func (p *KafkaEventPublisher) PublishPasswordResetOTP(ctx context.Context, event domain.PasswordResetOTPEvent) error {
	return p.producer.SendMessage(ctx, p.topic, domain.EventPasswordResetOTP, event)
}
