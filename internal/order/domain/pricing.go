package domain

import (
	"time"

	"github.com/shopspring/decimal"

	coupon "github.com/qtremors/amanzon/internal/coupon/domain"
)

// PricingConfig 计价参数，由配置显式注入而非环境查找
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal
	ShippingCost          decimal.Decimal
}

// Totals 购物车/订单金额明细
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// CalculateShipping 小计达到免邮门槛则运费为零，否则收取固定运费
func CalculateShipping(subtotal decimal.Decimal, cfg PricingConfig) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold) {
		return decimal.Zero
	}
	return cfg.ShippingCost
}

// CalculateDiscount 券无效或小计不足最低消费时折扣为零
func CalculateDiscount(subtotal decimal.Decimal, c *coupon.Coupon, now time.Time) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	if !c.IsValid(now) {
		return decimal.Zero
	}
	if subtotal.LessThan(c.MinOrderAmount) {
		return decimal.Zero
	}
	return subtotal.Mul(c.DiscountPercent).Div(decimal.NewFromInt(100))
}

// CalculateTotals 汇总小计、运费、折扣与应付金额。
// total = subtotal + shipping - discount，在订单创建时定格，此后不再重算。
func CalculateTotals(subtotal decimal.Decimal, c *coupon.Coupon, cfg PricingConfig) Totals {
	shipping := CalculateShipping(subtotal, cfg)
	discount := CalculateDiscount(subtotal, c, time.Now())
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(shipping).Sub(discount),
	}
}
