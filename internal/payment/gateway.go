// Package payment 封装外部支付网关的请求/响应契约
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrGatewayRequest    = errors.New("payment gateway request failed")
)

// GatewayOrder 网关侧订单引用
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Gateway 支付网关契约：创建支付单、退款、验签
type Gateway interface {
	// CreateOrder 以最小货币单位金额创建网关订单
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error)
	// Refund 对指定支付发起退款，金额为最小货币单位
	Refund(ctx context.Context, paymentID string, amount decimal.Decimal) error
	// VerifySignature 校验回调签名，失败返回 ErrSignatureMismatch
	VerifySignature(gatewayOrderID, paymentID, signature string) error
	// KeyID 暴露给前端发起支付所需的公钥标识
	KeyID() string
}

// MinorUnits 将十进制金额转换为最小货币单位（如 paise）
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
