package application

import (
	"context"
	"fmt"
	"time"

	cartdomain "github.com/qtremors/amanzon/internal/cart/domain"
	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	coupondomain "github.com/qtremors/amanzon/internal/coupon/domain"
	"github.com/qtremors/amanzon/internal/order/domain"
	"github.com/qtremors/amanzon/internal/payment"
	"github.com/qtremors/amanzon/pkg/db"
	"github.com/qtremors/amanzon/pkg/logger"
)

// CouponRedeemer 校验优惠码并在订单落库时记录使用
type CouponRedeemer interface {
	Validate(ctx context.Context, code string, userID uint) (*coupondomain.Coupon, error)
	RecordUsage(ctx context.Context, couponID, userID, orderID uint) error
}

type OrderService struct {
	orders    domain.OrderRepository
	carts     cartdomain.CartRepository
	products  catalog.ProductRepository
	coupons   CouponRedeemer
	gateway   payment.Gateway
	publisher domain.EventPublisher
	tx        db.TxManager
	pricing   domain.PricingConfig
	currency  string
}

func NewOrderService(
	orders domain.OrderRepository,
	carts cartdomain.CartRepository,
	products catalog.ProductRepository,
	coupons CouponRedeemer,
	gateway payment.Gateway,
	publisher domain.EventPublisher,
	tx db.TxManager,
	pricing domain.PricingConfig,
	currency string,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		coupons:   coupons,
		gateway:   gateway,
		publisher: publisher,
		tx:        tx,
		pricing:   pricing,
		currency:  currency,
	}
}

// ListOrders 用户订单列表，新单在前
func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// GetOrder 订单详情，按用户归属过滤
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	return s.orders.GetByID(ctx, userID, orderID)
}

// materialize 将购物车定格为订单，单事务内完成：
// 建单、逐行快照并带下限扣库存、记录券使用、清空购物车。
// 任一步失败则全部回滚，库存扣减不足时以 ErrInsufficientStock 中止。
func (s *OrderService) materialize(ctx context.Context, userID uint, pending *PendingCheckout, gatewayPaymentID string) (*domain.Order, error) {
	var order *domain.Order

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		cart, err := s.carts.GetByUserID(txCtx, userID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		coupon := s.validCoupon(txCtx, cart.CouponCode, userID)
		totals := domain.CalculateTotals(cart.Subtotal(), coupon, s.pricing)

		order = &domain.Order{
			OrderNumber:      pending.OrderNumber,
			UserID:           userID,
			BillingDetails:   pending.Billing,
			Subtotal:         totals.Subtotal,
			ShippingCost:     totals.Shipping,
			Discount:         totals.Discount,
			Total:            totals.Total,
			GatewayOrderID:   pending.GatewayOrderID,
			GatewayPaymentID: gatewayPaymentID,
			IsPaid:           true,
			Status:           domain.StatusConfirmed,
		}
		if err := s.orders.Create(txCtx, order); err != nil {
			return err
		}

		for i := range cart.Items {
			item := &cart.Items[i]
			if item.Product == nil {
				return domain.ErrInsufficientStock
			}

			ok, err := s.products.DecrementStock(txCtx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrInsufficientStock
			}

			productID := item.ProductID
			orderItem := &domain.OrderItem{
				OrderID:     order.ID,
				ProductID:   &productID,
				ProductName: item.Product.Name,
				Price:       item.Product.Price,
				Quantity:    item.Quantity,
			}
			if err := s.orders.CreateItem(txCtx, orderItem); err != nil {
				return err
			}
			order.Items = append(order.Items, *orderItem)
		}

		if coupon != nil {
			if err := s.coupons.RecordUsage(txCtx, coupon.ID, userID, order.ID); err != nil {
				return err
			}
		}

		if err := s.carts.ClearItems(txCtx, cart.ID); err != nil {
			return err
		}
		return s.carts.SetCouponCode(txCtx, cart.ID, "")
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// validCoupon 结算时重新校验购物车上的优惠码，失效则按无券计价
func (s *OrderService) validCoupon(ctx context.Context, code string, userID uint) *coupondomain.Coupon {
	if code == "" {
		return nil
	}
	coupon, err := s.coupons.Validate(ctx, code, userID)
	if err != nil {
		logger.Debug(ctx, "ignoring stale coupon at checkout", "code", code, "reason", err)
		return nil
	}
	return coupon
}

// Cancel 取消订单。已支付的订单先向网关发起退款，
// 退款失败则订单与库存原样保留；退款成功后才在事务内
// 回补库存（商品已删除的行跳过）并落取消状态。
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanBeCancelled() {
		return nil, domain.ErrOrderNotCancellable
	}

	refunded := false
	if order.IsPaid && order.GatewayPaymentID != "" {
		if err := s.gateway.Refund(ctx, order.GatewayPaymentID, order.Total); err != nil {
			logger.Error(ctx, "Refund failed, keeping order intact",
				"order_id", order.ID, "payment_id", order.GatewayPaymentID, "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrRefundFailed, err)
		}
		refunded = true
	}

	err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
		for i := range order.Items {
			item := &order.Items[i]
			if item.ProductID == nil {
				continue
			}
			if err := s.products.IncrementStock(txCtx, *item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.orders.UpdateStatus(txCtx, order.ID, domain.StatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	order.Status = domain.StatusCancelled

	if perr := s.publisher.PublishOrderCancelled(ctx, domain.OrderCancelledEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		FirstName:   order.FirstName,
		Refunded:    refunded,
		OccurredAt:  time.Now(),
	}); perr != nil {
		logger.Warn(ctx, "failed to publish order cancelled event", "order_id", order.ID, "error", perr)
	}

	return order, nil
}

// AdvanceStatus 后台履约流转，仅允许 confirmed→shipped→delivered
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID uint, next domain.OrderStatus) error {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}
	return s.orders.UpdateStatus(ctx, orderID, next)
}
