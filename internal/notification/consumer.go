package notification

import (
	"context"
	"encoding/json"
	"fmt"

	accountdomain "github.com/qtremors/amanzon/internal/account/domain"
	orderdomain "github.com/qtremors/amanzon/internal/order/domain"
	"github.com/qtremors/amanzon/pkg/logger"
)

// Sender Mailer 的抽象，便于测试
type Sender interface {
	SendOrderConfirmation(to, name, orderNumber, total, currency string) error
	SendOrderCancellation(to, name, orderNumber string, refunded bool) error
	SendVerification(to, name, token string) error
	SendPasswordResetOTP(to, name, otp string) error
}

// Dispatcher 按消息 key 把事件派发到对应的邮件模板。
// 发送失败只记日志不返回错误，避免消息被无限重投。
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Handle 实现 mq.Handler
func (d *Dispatcher) Handle(ctx context.Context, key string, value []byte) error {
	var err error
	switch key {
	case orderdomain.EventOrderConfirmed:
		err = d.orderConfirmed(value)
	case orderdomain.EventOrderCancelled:
		err = d.orderCancelled(value)
	case accountdomain.EventAccountVerification:
		err = d.accountVerification(value)
	case accountdomain.EventPasswordResetOTP:
		err = d.passwordResetOTP(value)
	default:
		logger.Warn(ctx, "unknown event type, skipping", "key", key)
		return nil
	}

	if err != nil {
		// 邮件尽力而为，失败不阻塞消费进度
		logger.Error(ctx, "Failed to send notification email", "key", key, "error", err)
	}
	return nil
}

func (d *Dispatcher) orderConfirmed(value []byte) error {
	var event orderdomain.OrderConfirmedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decode order confirmed event: %w", err)
	}
	return d.sender.SendOrderConfirmation(event.Email, event.FirstName, event.OrderNumber, event.Total, event.Currency)
}

func (d *Dispatcher) orderCancelled(value []byte) error {
	var event orderdomain.OrderCancelledEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decode order cancelled event: %w", err)
	}
	return d.sender.SendOrderCancellation(event.Email, event.FirstName, event.OrderNumber, event.Refunded)
}

func (d *Dispatcher) accountVerification(value []byte) error {
	var event accountdomain.AccountVerificationEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decode verification event: %w", err)
	}
	return d.sender.SendVerification(event.Email, event.FirstName, event.Token)
}

func (d *Dispatcher) passwordResetOTP(value []byte) error {
	var event accountdomain.PasswordResetOTPEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("decode password reset event: %w", err)
	}
	return d.sender.SendPasswordResetOTP(event.Email, event.FirstName, event.OTP)
}
