package domain

import (
	"context"
	"time"
)

// 事件类型，作为 Kafka 消息 key
const (
	EventAccountVerification = "account.verification"
	EventPasswordResetOTP    = "account.password_reset_otp"
)

// AccountVerificationEvent 注册后触发的验证邮件事件
type AccountVerificationEvent struct {
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	Token      string    `json:"token"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PasswordResetOTPEvent 密码重置验证码事件
type PasswordResetOTPEvent struct {
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	OTP        string    `json:"otp"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher 账户事件发布接口
type EventPublisher interface {
	PublishVerification(ctx context.Context, event AccountVerificationEvent) error
	PublishPasswordResetOTP(ctx context.Context, event PasswordResetOTPEvent) error
}
