package application

import (
	"context"
	"errors"
	"strings"

	"github.com/qtremors/amanzon/internal/cart/domain"
	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	coupondomain "github.com/qtremors/amanzon/internal/coupon/domain"
	orderdomain "github.com/qtremors/amanzon/internal/order/domain"
	"github.com/qtremors/amanzon/pkg/logger"
)

// CouponValidator 校验优惠码，无副作用
type CouponValidator interface {
	Validate(ctx context.Context, code string, userID uint) (*coupondomain.Coupon, error)
}

// CartView 购物车及其计价结果
type CartView struct {
	Cart   *domain.Cart        `json:"cart"`
	Coupon *coupondomain.Coupon `json:"coupon,omitempty"`
	Totals orderdomain.Totals  `json:"totals"`
}

type CartService struct {
	carts    domain.CartRepository
	products catalog.ProductRepository
	coupons  CouponValidator
	pricing  orderdomain.PricingConfig
}

func NewCartService(carts domain.CartRepository, products catalog.ProductRepository, coupons CouponValidator, pricing orderdomain.PricingConfig) *CartService {
	return &CartService{carts: carts, products: products, coupons: coupons, pricing: pricing}
}

// GetCart 返回购物车与计价结果。已应用的优惠码每次重新校验，
// 失效或已使用的券被静默移除。
func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	coupon := s.revalidateCoupon(ctx, cart, userID)
	return &CartView{
		Cart:   cart,
		Coupon: coupon,
		Totals: orderdomain.CalculateTotals(cart.Subtotal(), coupon, s.pricing),
	}, nil
}

// revalidateCoupon 校验购物车上的优惠码，失效则从购物车摘除
func (s *CartService) revalidateCoupon(ctx context.Context, cart *domain.Cart, userID uint) *coupondomain.Coupon {
	if cart.CouponCode == "" {
		return nil
	}
	coupon, err := s.coupons.Validate(ctx, cart.CouponCode, userID)
	if err != nil {
		logger.Debug(ctx, "detaching stale coupon from cart",
			"cart_id", cart.ID, "code", cart.CouponCode, "reason", err)
		if derr := s.carts.SetCouponCode(ctx, cart.ID, ""); derr != nil {
			logger.Warn(ctx, "failed to detach coupon", "cart_id", cart.ID, "error", derr)
		}
		cart.CouponCode = ""
		return nil
	}
	return coupon
}

// AddProduct 加入购物车；已有则数量加一，但不超过库存
func (s *CartService) AddProduct(ctx context.Context, userID, productID uint) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return catalog.ErrProductInactive
	}
	if !product.InStock() {
		return domain.ErrOutOfStock
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	if item := cart.Item(productID); item != nil {
		if item.Quantity >= product.Stock {
			return domain.ErrStockExceeded
		}
		item.Quantity++
		return s.carts.SaveItem(ctx, item)
	}

	return s.carts.SaveItem(ctx, &domain.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  1,
	})
}

// QuantityAction 数量调整方向
type QuantityAction string

const (
	ActionIncrease QuantityAction = "increase"
	ActionDecrease QuantityAction = "decrease"
)

// UpdateQuantity 调整行数量，降为零时删除该行
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, action QuantityAction) error {
	item, err := s.carts.GetItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	switch action {
	case ActionIncrease:
		item.Quantity++
		return s.carts.SaveItem(ctx, item)
	case ActionDecrease:
		if item.Quantity > 1 {
			item.Quantity--
			return s.carts.SaveItem(ctx, item)
		}
		return s.carts.DeleteItem(ctx, item)
	default:
		return errors.New("unknown quantity action")
	}
}

// RemoveItem 删除购物车行
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	item, err := s.carts.GetItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.carts.DeleteItem(ctx, item)
}

// ApplyCoupon 校验并在购物车上记录优惠码
func (s *CartService) ApplyCoupon(ctx context.Context, userID uint, code string) (*coupondomain.Coupon, error) {
	coupon, err := s.coupons.Validate(ctx, code, userID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SetCouponCode(ctx, cart.ID, strings.ToUpper(strings.TrimSpace(code))); err != nil {
		return nil, err
	}
	return coupon, nil
}

// RemoveCoupon 摘除购物车上的优惠码
func (s *CartService) RemoveCoupon(ctx context.Context, userID uint) error {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil
		}
		return err
	}
	return s.carts.SetCouponCode(ctx, cart.ID, "")
}
