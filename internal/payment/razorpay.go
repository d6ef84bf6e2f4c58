package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qtremors/amanzon/pkg/config"
	"github.com/qtremors/amanzon/pkg/logger"
)

// RazorpayGateway Razorpay REST 客户端。未配置密钥时进入 demo 模式：
// 生成本地订单引用并跳过验签，便于无网关环境联调。
type RazorpayGateway struct {
	client    *resty.Client
	keyID     string
	keySecret string
	demo      bool
}

func NewRazorpayGateway(cfg config.GatewayConfig) *RazorpayGateway {
	g := &RazorpayGateway{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		demo:      !cfg.Configured(),
	}
	if !g.demo {
		g.client = resty.New().
			SetBaseURL(cfg.BaseURL).
			SetBasicAuth(cfg.KeyID, cfg.KeySecret).
			SetHeader("Content-Type", "application/json")
	}
	return g
}

func (g *RazorpayGateway) KeyID() string {
	if g.demo {
		return "demo_key"
	}
	return g.keyID
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error) {
	minor := MinorUnits(amount)

	if g.demo {
		order := &GatewayOrder{
			ID:       "order_demo_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
			Amount:   minor,
			Currency: currency,
		}
		logger.Info(ctx, "Demo mode: created local gateway order", "gateway_order_id", order.ID)
		return order, nil
	}

	var order GatewayOrder
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"amount":          minor,
			"currency":        currency,
			"receipt":         receipt,
			"payment_capture": 1,
		}).
		SetResult(&order).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayRequest, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrGatewayRequest, resp.StatusCode(), resp.String())
	}
	return &order, nil
}

func (g *RazorpayGateway) Refund(ctx context.Context, paymentID string, amount decimal.Decimal) error {
	if g.demo {
		logger.Info(ctx, "Demo mode: skipping refund call", "payment_id", paymentID)
		return nil
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"amount": MinorUnits(amount)}).
		Post(fmt.Sprintf("/payments/%s/refund", paymentID))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayRequest, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d: %s", ErrGatewayRequest, resp.StatusCode(), resp.String())
	}
	return nil
}

// VerifySignature 按网关文档约定校验 HMAC-SHA256(order_id|payment_id)
func (g *RazorpayGateway) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	if g.demo {
		// demo 支付只做形式检查
		if !strings.HasPrefix(paymentID, "pay_demo_") {
			return ErrSignatureMismatch
		}
		return nil
	}

	expected := Sign(gatewayOrderID, paymentID, g.keySecret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign 计算回调签名：HMAC-SHA256(order_id + "|" + payment_id, secret) 的十六进制
func Sign(gatewayOrderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
