package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/qtremors/amanzon/internal/cart/domain"
	"github.com/qtremors/amanzon/internal/order/domain"
	"github.com/qtremors/amanzon/internal/payment"
	"github.com/qtremors/amanzon/pkg/logger"
)

// PendingCheckout 结算到回调之间的中间态：账单快照与待用订单号，
// 以网关订单号为键暂存，回调时取出落库。
type PendingCheckout struct {
	UserID         uint                  `json:"user_id"`
	OrderNumber    string                `json:"order_number"`
	GatewayOrderID string                `json:"gateway_order_id"`
	Billing        domain.BillingDetails `json:"billing"`
	CreatedAt      time.Time             `json:"created_at"`
}

var ErrPendingNotFound = errors.New("no pending checkout for this payment")

// CheckoutStore 暂存层。Take 取出即删除，保证一次回调只消费一次。
type CheckoutStore interface {
	Put(ctx context.Context, pending *PendingCheckout) error
	Take(ctx context.Context, gatewayOrderID string) (*PendingCheckout, error)
}

// StockIssue 结算前库存校验发现的问题行
type StockIssue struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// CheckoutResult 返回给前端发起支付所需的数据
type CheckoutResult struct {
	Totals         domain.Totals `json:"totals"`
	GatewayOrderID string        `json:"gateway_order_id"`
	GatewayKeyID   string        `json:"gateway_key_id"`
	Amount         int64         `json:"amount"`
	Currency       string        `json:"currency"`
	StockIssues    []StockIssue  `json:"stock_issues,omitempty"`
}

type CheckoutService struct {
	orders  *OrderService
	store   CheckoutStore
	gateway payment.Gateway
}

func NewCheckoutService(orders *OrderService, store CheckoutStore, gateway payment.Gateway) *CheckoutService {
	return &CheckoutService{orders: orders, store: store, gateway: gateway}
}

// Checkout 校验购物车与库存，按当前价重新计价，
// 创建网关订单并暂存账单快照。不产生本地订单。
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, billing domain.BillingDetails) (*CheckoutResult, error) {
	cart, err := s.orders.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, cartdomain.ErrCartNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	var issues []StockIssue
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			issues = append(issues, StockIssue{ProductID: item.ProductID, Requested: item.Quantity})
			continue
		}
		if item.Product.Stock < item.Quantity || !item.Product.IsActive {
			available := item.Product.Stock
			if !item.Product.IsActive {
				available = 0
			}
			issues = append(issues, StockIssue{
				ProductID: item.ProductID,
				Name:      item.Product.Name,
				Requested: item.Quantity,
				Available: available,
			})
		}
	}
	if len(issues) > 0 {
		return &CheckoutResult{StockIssues: issues}, domain.ErrStockValidationFound
	}

	coupon := s.orders.validCoupon(ctx, cart.CouponCode, userID)
	totals := domain.CalculateTotals(cart.Subtotal(), coupon, s.orders.pricing)

	orderNumber := uuid.NewString()
	gatewayOrder, err := s.gateway.CreateOrder(ctx, totals.Total, s.orders.currency, orderNumber)
	if err != nil {
		return nil, err
	}

	pending := &PendingCheckout{
		UserID:         userID,
		OrderNumber:    orderNumber,
		GatewayOrderID: gatewayOrder.ID,
		Billing:        billing,
		CreatedAt:      time.Now(),
	}
	if err := s.store.Put(ctx, pending); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Checkout initiated",
		"user_id", userID, "gateway_order_id", gatewayOrder.ID, "total", totals.Total)

	return &CheckoutResult{
		Totals:         totals,
		GatewayOrderID: gatewayOrder.ID,
		GatewayKeyID:   s.gateway.KeyID(),
		Amount:         gatewayOrder.Amount,
		Currency:       gatewayOrder.Currency,
	}, nil
}

// CallbackInput 支付网关回调参数
type CallbackInput struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature"`
}

// HandlePaymentCallback 支付回调。顺序不可调换：
// 先按网关订单号查重（重复回调直接返回既有订单，不做任何改动），
// 再验签（失败即中止，不做任何改动），最后才落库并发事件。
func (s *CheckoutService) HandlePaymentCallback(ctx context.Context, userID uint, in CallbackInput) (*domain.Order, error) {
	existing, err := s.orders.orders.GetByGatewayOrderID(ctx, in.GatewayOrderID)
	if err == nil {
		logger.Info(ctx, "Duplicate payment callback, returning existing order",
			"order_id", existing.ID, "gateway_order_id", in.GatewayOrderID)
		return existing, domain.ErrDuplicateOrder
	}
	if !errors.Is(err, domain.ErrOrderNotFound) {
		return nil, err
	}

	if err := s.gateway.VerifySignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature); err != nil {
		logger.Warn(ctx, "Payment signature verification failed",
			"gateway_order_id", in.GatewayOrderID, "error", err)
		return nil, domain.ErrVerificationFailed
	}

	pending, err := s.store.Take(ctx, in.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if pending.UserID != userID {
		return nil, ErrPendingNotFound
	}

	order, err := s.orders.materialize(ctx, userID, pending, in.GatewayPaymentID)
	if err != nil {
		logger.Error(ctx, "Order materialization failed after verified payment",
			"gateway_order_id", in.GatewayOrderID, "error", err)
		return nil, err
	}

	if perr := s.orders.publisher.PublishOrderConfirmed(ctx, domain.OrderConfirmedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		FirstName:   order.FirstName,
		Total:       order.Total.StringFixed(2),
		Currency:    s.orders.currency,
		OccurredAt:  time.Now(),
	}); perr != nil {
		logger.Warn(ctx, "failed to publish order confirmed event", "order_id", order.ID, "error", perr)
	}

	return order, nil
}
