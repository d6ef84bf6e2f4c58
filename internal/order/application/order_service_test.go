package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	cartdomain "github.com/qtremors/amanzon/internal/cart/domain"
	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
	coupondomain "github.com/qtremors/amanzon/internal/coupon/domain"
	"github.com/qtremors/amanzon/internal/order/domain"
	"github.com/qtremors/amanzon/internal/payment"
)

// world 内存假仓储共享的状态，fakeTx 在事务失败时整体回滚
type world struct {
	products map[uint]*catalog.Product
	carts    map[uint]*cartdomain.Cart
	orders   []*domain.Order
	items    []*domain.OrderItem
	usages   map[string]bool
	coupons  map[string]*coupondomain.Coupon
	pendings map[string]*PendingCheckout

	nextOrderID   uint
	createdOrders int
	refunds       []string
	refundErr     error
	events        []string
}

func newWorld() *world {
	return &world{
		products: map[uint]*catalog.Product{},
		carts:    map[uint]*cartdomain.Cart{},
		usages:   map[string]bool{},
		coupons:  map[string]*coupondomain.Coupon{},
		pendings: map[string]*PendingCheckout{},
	}
}

func (w *world) clone() *world {
	c := newWorld()
	for id, p := range w.products {
		cp := *p
		c.products[id] = &cp
	}
	for uid, cart := range w.carts {
		cc := *cart
		cc.Items = make([]cartdomain.CartItem, len(cart.Items))
		copy(cc.Items, cart.Items)
		c.carts[uid] = &cc
	}
	for _, o := range w.orders {
		co := *o
		c.orders = append(c.orders, &co)
	}
	for _, it := range w.items {
		ci := *it
		c.items = append(c.items, &ci)
	}
	for k, v := range w.usages {
		c.usages[k] = v
	}
	c.nextOrderID = w.nextOrderID
	return c
}

func (w *world) restore(snap *world) {
	w.products = snap.products
	w.carts = snap.carts
	w.orders = snap.orders
	w.items = snap.items
	w.usages = snap.usages
	w.nextOrderID = snap.nextOrderID
}

type fakeTx struct{ w *world }

func (t *fakeTx) WithTx(ctx context.Context, fn func(context.Context) error) error {
	snap := t.w.clone()
	if err := fn(ctx); err != nil {
		t.w.restore(snap)
		return err
	}
	return nil
}

type fakeProducts struct{ w *world }

func (f *fakeProducts) Save(ctx context.Context, p *catalog.Product) error {
	f.w.products[p.ID] = p
	return nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id uint) (*catalog.Product, error) {
	p, ok := f.w.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProducts) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return nil, catalog.ErrProductNotFound
}

func (f *fakeProducts) List(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProducts) Featured(ctx context.Context, limit int) ([]*catalog.Product, error) {
	return nil, nil
}

func (f *fakeProducts) ListRelated(ctx context.Context, categoryID, excludeID uint, limit int) ([]*catalog.Product, error) {
	return nil, nil
}

func (f *fakeProducts) DecrementStock(ctx context.Context, productID uint, qty int) (bool, error) {
	p, ok := f.w.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (f *fakeProducts) IncrementStock(ctx context.Context, productID uint, qty int) error {
	if p, ok := f.w.products[productID]; ok {
		p.Stock += qty
	}
	return nil
}

type fakeCarts struct{ w *world }

func (f *fakeCarts) GetByUserID(ctx context.Context, userID uint) (*cartdomain.Cart, error) {
	cart, ok := f.w.carts[userID]
	if !ok {
		return nil, cartdomain.ErrCartNotFound
	}
	for i := range cart.Items {
		cart.Items[i].Product = f.w.products[cart.Items[i].ProductID]
	}
	return cart, nil
}

func (f *fakeCarts) GetOrCreate(ctx context.Context, userID uint) (*cartdomain.Cart, error) {
	if cart, err := f.GetByUserID(ctx, userID); err == nil {
		return cart, nil
	}
	cart := &cartdomain.Cart{UserID: userID}
	cart.ID = userID
	f.w.carts[userID] = cart
	return cart, nil
}

func (f *fakeCarts) Save(ctx context.Context, cart *cartdomain.Cart) error { return nil }

func (f *fakeCarts) SaveItem(ctx context.Context, item *cartdomain.CartItem) error { return nil }

func (f *fakeCarts) DeleteItem(ctx context.Context, item *cartdomain.CartItem) error { return nil }

func (f *fakeCarts) GetItem(ctx context.Context, userID, itemID uint) (*cartdomain.CartItem, error) {
	return nil, cartdomain.ErrCartItemNotFound
}

func (f *fakeCarts) ClearItems(ctx context.Context, cartID uint) error {
	for _, cart := range f.w.carts {
		if cart.ID == cartID {
			cart.Items = nil
		}
	}
	return nil
}

func (f *fakeCarts) SetCouponCode(ctx context.Context, cartID uint, code string) error {
	for _, cart := range f.w.carts {
		if cart.ID == cartID {
			cart.CouponCode = code
		}
	}
	return nil
}

type fakeOrders struct{ w *world }

func (f *fakeOrders) Create(ctx context.Context, order *domain.Order) error {
	f.w.nextOrderID++
	order.ID = f.w.nextOrderID
	f.w.orders = append(f.w.orders, order)
	f.w.createdOrders++
	return nil
}

func (f *fakeOrders) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	f.w.items = append(f.w.items, item)
	return nil
}

func (f *fakeOrders) Save(ctx context.Context, order *domain.Order) error { return nil }

func (f *fakeOrders) Get(ctx context.Context, orderID uint) (*domain.Order, error) {
	for _, o := range f.w.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrders) GetByID(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	for _, o := range f.w.orders {
		if o.ID == orderID && o.UserID == userID {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrders) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	for _, o := range f.w.orders {
		if o.GatewayOrderID != "" && o.GatewayOrderID == gatewayOrderID {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID uint) ([]*domain.Order, error) {
	var out []*domain.Order
	for i := len(f.w.orders) - 1; i >= 0; i-- {
		if f.w.orders[i].UserID == userID {
			out = append(out, f.w.orders[i])
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) error {
	for _, o := range f.w.orders {
		if o.ID == orderID {
			o.Status = status
			return nil
		}
	}
	return domain.ErrOrderNotFound
}

type fakeCoupons struct{ w *world }

func (f *fakeCoupons) Validate(ctx context.Context, code string, userID uint) (*coupondomain.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, coupondomain.ErrEmptyCode
	}
	coupon, ok := f.w.coupons[code]
	if !ok {
		return nil, coupondomain.ErrInvalidCode
	}
	if !coupon.IsValid(time.Now()) {
		return nil, coupondomain.ErrExpired
	}
	if f.w.usages[fmt.Sprintf("%d:%d", coupon.ID, userID)] {
		return nil, coupondomain.ErrAlreadyUsed
	}
	return coupon, nil
}

func (f *fakeCoupons) RecordUsage(ctx context.Context, couponID, userID, orderID uint) error {
	f.w.usages[fmt.Sprintf("%d:%d", couponID, userID)] = true
	return nil
}

type fakeGateway struct{ w *world }

func (f *fakeGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*payment.GatewayOrder, error) {
	return &payment.GatewayOrder{
		ID:       "order_fake_" + receipt[:8],
		Amount:   payment.MinorUnits(amount),
		Currency: currency,
	}, nil
}

func (f *fakeGateway) Refund(ctx context.Context, paymentID string, amount decimal.Decimal) error {
	if f.w.refundErr != nil {
		return f.w.refundErr
	}
	f.w.refunds = append(f.w.refunds, paymentID)
	return nil
}

func (f *fakeGateway) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	if signature == "bad" {
		return payment.ErrSignatureMismatch
	}
	return nil
}

func (f *fakeGateway) KeyID() string { return "fake_key" }

type fakePublisher struct{ w *world }

func (f *fakePublisher) PublishOrderConfirmed(ctx context.Context, event domain.OrderConfirmedEvent) error {
	f.w.events = append(f.w.events, domain.EventOrderConfirmed)
	return nil
}

func (f *fakePublisher) PublishOrderCancelled(ctx context.Context, event domain.OrderCancelledEvent) error {
	f.w.events = append(f.w.events, domain.EventOrderCancelled)
	return nil
}

type fakeCheckoutStore struct{ w *world }

func (f *fakeCheckoutStore) Put(ctx context.Context, pending *PendingCheckout) error {
	f.w.pendings[pending.GatewayOrderID] = pending
	return nil
}

func (f *fakeCheckoutStore) Take(ctx context.Context, gatewayOrderID string) (*PendingCheckout, error) {
	pending, ok := f.w.pendings[gatewayOrderID]
	if !ok {
		return nil, ErrPendingNotFound
	}
	delete(f.w.pendings, gatewayOrderID)
	return pending, nil
}

func testPricing() domain.PricingConfig {
	return domain.PricingConfig{
		FreeShippingThreshold: decimal.NewFromInt(500),
		ShippingCost:          decimal.NewFromInt(50),
	}
}

func newServices(w *world) (*OrderService, *CheckoutService) {
	orders := NewOrderService(
		&fakeOrders{w}, &fakeCarts{w}, &fakeProducts{w}, &fakeCoupons{w},
		&fakeGateway{w}, &fakePublisher{w}, &fakeTx{w}, testPricing(), "INR",
	)
	checkout := NewCheckoutService(orders, &fakeCheckoutStore{w}, &fakeGateway{w})
	return orders, checkout
}

func seedProduct(w *world, id uint, name, price string, stock int) {
	p := &catalog.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	p.Model = gorm.Model{ID: id}
	w.products[id] = p
}

func seedCart(w *world, userID uint, lines map[uint]int) {
	cart := &cartdomain.Cart{UserID: userID}
	cart.ID = userID
	for pid, qty := range lines {
		cart.Items = append(cart.Items, cartdomain.CartItem{CartID: cart.ID, ProductID: pid, Quantity: qty})
	}
	w.carts[userID] = cart
}

func billing() domain.BillingDetails {
	return domain.BillingDetails{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com",
		Phone: "9999999999", AddressLine1: "12 MG Road",
		City: "Bengaluru", State: "Karnataka", Country: "India", ZipCode: "560001",
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	w := newWorld()
	_, checkout := newServices(w)

	if _, err := checkout.Checkout(context.Background(), 7, billing()); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("no cart: got %v, want ErrEmptyCart", err)
	}

	seedCart(w, 7, nil)
	if _, err := checkout.Checkout(context.Background(), 7, billing()); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("empty cart: got %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutBlocksOnStockIssues(t *testing.T) {
	w := newWorld()
	_, checkout := newServices(w)
	seedProduct(w, 1, "Keyboard", "100.00", 5)
	seedCart(w, 7, map[uint]int{1: 10})

	result, err := checkout.Checkout(context.Background(), 7, billing())
	if !errors.Is(err, domain.ErrStockValidationFound) {
		t.Fatalf("got %v, want ErrStockValidationFound", err)
	}
	if len(result.StockIssues) != 1 {
		t.Fatalf("got %d stock issues, want 1", len(result.StockIssues))
	}
	issue := result.StockIssues[0]
	if issue.ProductID != 1 || issue.Requested != 10 || issue.Available != 5 {
		t.Fatalf("unexpected issue: %+v", issue)
	}
	if len(w.pendings) != 0 {
		t.Fatal("pending checkout should not be stored when stock validation fails")
	}
}

func TestCheckoutComputesTotalsAndStashesPending(t *testing.T) {
	w := newWorld()
	_, checkout := newServices(w)
	seedProduct(w, 1, "Keyboard", "100.00", 5)
	seedProduct(w, 2, "Mouse", "50.00", 2)
	seedCart(w, 7, map[uint]int{1: 2, 2: 1})

	result, err := checkout.Checkout(context.Background(), 7, billing())
	if err != nil {
		t.Fatal(err)
	}

	// 250 below the 500 threshold, so shipping applies
	if !result.Totals.Subtotal.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("subtotal = %s, want 250.00", result.Totals.Subtotal)
	}
	if !result.Totals.Shipping.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("shipping = %s, want 50", result.Totals.Shipping)
	}
	if !result.Totals.Total.Equal(decimal.RequireFromString("300.00")) {
		t.Fatalf("total = %s, want 300.00", result.Totals.Total)
	}
	if result.Amount != 30000 {
		t.Fatalf("minor units = %d, want 30000", result.Amount)
	}
	if result.GatewayKeyID != "fake_key" {
		t.Fatalf("gateway key = %q", result.GatewayKeyID)
	}

	pending, ok := w.pendings[result.GatewayOrderID]
	if !ok {
		t.Fatal("pending checkout not stored")
	}
	if pending.UserID != 7 || pending.Billing.Email != "asha@example.com" {
		t.Fatalf("unexpected pending: %+v", pending)
	}
}

func TestPaymentCallbackMaterializesOrder(t *testing.T) {
	w := newWorld()
	_, checkout := newServices(w)
	seedProduct(w, 1, "Keyboard", "100.00", 5)
	seedProduct(w, 2, "Mouse", "50.00", 2)
	seedCart(w, 7, map[uint]int{1: 2, 2: 1})
	w.coupons["SAVE20"] = validCoupon(1, "SAVE20", "20", "100")
	w.carts[7].CouponCode = "SAVE20"

	result, err := checkout.Checkout(context.Background(), 7, billing())
	if err != nil {
		t.Fatal(err)
	}

	order, err := checkout.HandlePaymentCallback(context.Background(), 7, CallbackInput{
		GatewayOrderID:   result.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		Signature:        "good",
	})
	if err != nil {
		t.Fatal(err)
	}

	if order.Status != domain.StatusConfirmed || !order.IsPaid {
		t.Fatalf("order status=%s paid=%v, want confirmed/paid", order.Status, order.IsPaid)
	}
	// subtotal 250, shipping 50, 20% discount = 50, total 250
	if !order.Discount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("discount = %s, want 50", order.Discount)
	}
	if !order.Total.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("total = %s, want 250", order.Total)
	}
	if order.GatewayOrderID != result.GatewayOrderID || order.GatewayPaymentID != "pay_1" {
		t.Fatalf("gateway refs not recorded: %+v", order)
	}
	if len(order.Items) != 2 {
		t.Fatalf("got %d order items, want 2", len(order.Items))
	}

	if w.products[1].Stock != 3 || w.products[2].Stock != 1 {
		t.Fatalf("stock = %d/%d, want 3/1", w.products[1].Stock, w.products[2].Stock)
	}
	if !w.usages["1:7"] {
		t.Fatal("coupon usage not recorded")
	}
	if len(w.carts[7].Items) != 0 {
		t.Fatal("cart not cleared")
	}
	if w.carts[7].CouponCode != "" {
		t.Fatal("coupon code not detached from cart")
	}
	if len(w.events) != 1 || w.events[0] != domain.EventOrderConfirmed {
		t.Fatalf("events = %v, want [order.confirmed]", w.events)
	}
}

func TestPaymentCallbackIsIdempotent(t *testing.T) {
	w := newWorld()
	_, checkout := newServices(w)
	seedProduct(w, 1, "Keyboard", "100.00", 5)
	seedCart(w, 7, map[uint]int{1: 1})

	result, err := checkout.Checkout(context.Background(), 7, billing())
	if err != nil {
		t.Fatal(err)
	}

	in := CallbackInput{GatewayOrderID: result.GatewayOrderID, GatewayPaymentID: "pay_1", Signature: "good"}
	first, err := checkout.HandlePaymentCallback(context.Background(), 7, in)
	if err != nil {
		t.Fatal(err)
	}

	second, err := checkout.HandlePaymentCallback(context.Background(), 7, in)
	if !errors.Is(err, domain.ErrDuplicateOrder) {
		t.Fatalf("got %v, want ErrDuplicateOrder", err)
	}
	if second.ID != first.ID {
		t.Fatalf("duplicate callback returned order %d, want %d", second.ID, first.ID)
	}
	if w.createdOrders != 1 {
		t.Fatalf("created %d orders, want 1", w.createdOrders)
	}
	if w.products[1].Stock != 4 {
		t.Fatalf("stock = %d, want 4 (decremented exactly once)", w.products[1].Stock)
	}
	if len(w.events) != 1 {
		t.Fatalf("published %d events, want 1", len(w.events))
	}
}

func TestPaymentCallbackRejectsBadSignature(t *testing.T) {
	w := newWorld()
	_, checkout := newServices(w)
	seedProduct(w, 1, "Keyboard", "100.00", 5)
	seedCart(w, 7, map[uint]int{1: 1})

	result, err := checkout.Checkout(context.Background(), 7, billing())
	if err != nil {
		t.Fatal(err)
	}

	_, err = checkout.HandlePaymentCallback(context.Background(), 7, CallbackInput{
		GatewayOrderID:   result.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		Signature:        "bad",
	})
	if !errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("got %v, want ErrVerificationFailed", err)
	}

	if w.createdOrders != 0 {
		t.Fatal("order must not be created on signature failure")
	}
	if w.products[1].Stock != 5 {
		t.Fatalf("stock = %d, want 5 (untouched)", w.products[1].Stock)
	}
	if _, ok := w.pendings[result.GatewayOrderID]; !ok {
		t.Fatal("pending checkout must survive a failed verification for retry")
	}
}

func TestMaterializationIsAllOrNothing(t *testing.T) {
	w := newWorld()
	_, checkout := newServices(w)
	seedProduct(w, 1, "Keyboard", "100.00", 5)
	seedProduct(w, 2, "Mouse", "50.00", 2)
	seedCart(w, 7, map[uint]int{1: 2, 2: 1})

	result, err := checkout.Checkout(context.Background(), 7, billing())
	if err != nil {
		t.Fatal(err)
	}

	// a concurrent sale drains product 2 between checkout and callback
	w.products[2].Stock = 0

	_, err = checkout.HandlePaymentCallback(context.Background(), 7, CallbackInput{
		GatewayOrderID:   result.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		Signature:        "good",
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	if len(w.orders) != 0 {
		t.Fatal("order row must not survive an aborted materialization")
	}
	if len(w.items) != 0 {
		t.Fatal("order items must not survive an aborted materialization")
	}
	if w.products[1].Stock != 5 {
		t.Fatalf("product 1 stock = %d, want 5 (first decrement rolled back)", w.products[1].Stock)
	}
	if len(w.carts[7].Items) != 2 {
		t.Fatal("cart must be left intact")
	}
	if len(w.events) != 0 {
		t.Fatal("no event may be published for a failed materialization")
	}
}

func TestCancelGating(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.StatusShipped, domain.StatusDelivered, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			w := newWorld()
			orders, _ := newServices(w)
			seedOrder(w, 1, 7, status, false, "")

			if _, err := orders.Cancel(context.Background(), 7, 1); !errors.Is(err, domain.ErrOrderNotCancellable) {
				t.Fatalf("got %v, want ErrOrderNotCancellable", err)
			}
			if w.orders[0].Status != status {
				t.Fatalf("status changed to %s", w.orders[0].Status)
			}
		})
	}
}

func TestCancelRefundFailureLeavesEverythingIntact(t *testing.T) {
	w := newWorld()
	orders, _ := newServices(w)
	seedProduct(w, 1, "Keyboard", "100.00", 3)
	order := seedOrder(w, 1, 7, domain.StatusConfirmed, true, "pay_1")
	pid := uint(1)
	order.Items = []domain.OrderItem{{OrderID: 1, ProductID: &pid, ProductName: "Keyboard", Price: decimal.NewFromInt(100), Quantity: 2}}
	w.refundErr = errors.New("gateway down")

	_, err := orders.Cancel(context.Background(), 7, 1)
	if !errors.Is(err, domain.ErrRefundFailed) {
		t.Fatalf("got %v, want ErrRefundFailed", err)
	}
	if w.orders[0].Status != domain.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed (unchanged)", w.orders[0].Status)
	}
	if w.products[1].Stock != 3 {
		t.Fatalf("stock = %d, want 3 (no restock before successful refund)", w.products[1].Stock)
	}
	if len(w.events) != 0 {
		t.Fatal("no event may be published for a failed cancellation")
	}
}

func TestCancelPaidOrderRefundsThenRestocks(t *testing.T) {
	w := newWorld()
	orders, _ := newServices(w)
	seedProduct(w, 1, "Keyboard", "100.00", 3)
	order := seedOrder(w, 1, 7, domain.StatusConfirmed, true, "pay_1")
	pid := uint(1)
	order.Items = []domain.OrderItem{
		{OrderID: 1, ProductID: &pid, ProductName: "Keyboard", Price: decimal.NewFromInt(100), Quantity: 2},
		// product deleted since purchase, restock skipped
		{OrderID: 1, ProductID: nil, ProductName: "Ghost", Price: decimal.NewFromInt(10), Quantity: 1},
	}

	cancelled, err := orders.Cancel(context.Background(), 7, 1)
	if err != nil {
		t.Fatal(err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}
	if len(w.refunds) != 1 || w.refunds[0] != "pay_1" {
		t.Fatalf("refunds = %v, want [pay_1]", w.refunds)
	}
	if w.products[1].Stock != 5 {
		t.Fatalf("stock = %d, want 5 (restored)", w.products[1].Stock)
	}
	if len(w.events) != 1 || w.events[0] != domain.EventOrderCancelled {
		t.Fatalf("events = %v, want [order.cancelled]", w.events)
	}
}

func TestCancelUnpaidOrderSkipsRefund(t *testing.T) {
	w := newWorld()
	orders, _ := newServices(w)
	seedOrder(w, 1, 7, domain.StatusPending, false, "")

	if _, err := orders.Cancel(context.Background(), 7, 1); err != nil {
		t.Fatal(err)
	}
	if len(w.refunds) != 0 {
		t.Fatal("refund must not be called for an unpaid order")
	}
	if w.orders[0].Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", w.orders[0].Status)
	}
}

func TestAdvanceStatus(t *testing.T) {
	tests := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		wantErr error
	}{
		{domain.StatusConfirmed, domain.StatusShipped, nil},
		{domain.StatusShipped, domain.StatusDelivered, nil},
		{domain.StatusConfirmed, domain.StatusDelivered, domain.ErrInvalidTransition},
		{domain.StatusPending, domain.StatusShipped, domain.ErrInvalidTransition},
		{domain.StatusDelivered, domain.StatusShipped, domain.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			w := newWorld()
			orders, _ := newServices(w)
			seedOrder(w, 1, 7, tt.from, true, "pay_1")

			err := orders.AdvanceStatus(context.Background(), 1, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			want := tt.from
			if tt.wantErr == nil {
				want = tt.to
			}
			if w.orders[0].Status != want {
				t.Fatalf("status = %s, want %s", w.orders[0].Status, want)
			}
		})
	}
}

func seedOrder(w *world, id, userID uint, status domain.OrderStatus, paid bool, paymentID string) *domain.Order {
	order := &domain.Order{
		OrderNumber:      fmt.Sprintf("ord-%d", id),
		UserID:           userID,
		Status:           status,
		IsPaid:           paid,
		GatewayPaymentID: paymentID,
		Total:            decimal.NewFromInt(210),
	}
	order.ID = id
	w.orders = append(w.orders, order)
	if id > w.nextOrderID {
		w.nextOrderID = id
	}
	return order
}

func validCoupon(id uint, code, percent, minAmount string) *coupondomain.Coupon {
	c := &coupondomain.Coupon{
		Code:            code,
		DiscountPercent: decimal.RequireFromString(percent),
		MinOrderAmount:  decimal.RequireFromString(minAmount),
		IsActive:        true,
		ValidFrom:       time.Now().Add(-time.Hour),
		ValidTo:         time.Now().Add(time.Hour),
	}
	c.ID = id
	return c
}
