package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtremors/amanzon/pkg/config"
)

func liveGateway() *RazorpayGateway {
	return NewRazorpayGateway(config.GatewayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   "https://api.razorpay.com/v1",
	})
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	g := liveGateway()

	sig := Sign("order_abc123", "pay_def456", "rzp_test_secret")
	require.NoError(t, g.VerifySignature("order_abc123", "pay_def456", sig))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	g := liveGateway()
	sig := Sign("order_abc123", "pay_def456", "rzp_test_secret")

	assert.ErrorIs(t, g.VerifySignature("order_abc123", "pay_other", sig), ErrSignatureMismatch)
	assert.ErrorIs(t, g.VerifySignature("order_other", "pay_def456", sig), ErrSignatureMismatch)
	assert.ErrorIs(t, g.VerifySignature("order_abc123", "pay_def456", sig+"00"), ErrSignatureMismatch)
	assert.ErrorIs(t, g.VerifySignature("order_abc123", "pay_def456", ""), ErrSignatureMismatch)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	g := liveGateway()
	sig := Sign("order_abc123", "pay_def456", "some_other_secret")

	assert.ErrorIs(t, g.VerifySignature("order_abc123", "pay_def456", sig), ErrSignatureMismatch)
}

func TestDemoModeVerification(t *testing.T) {
	g := NewRazorpayGateway(config.GatewayConfig{})

	assert.NoError(t, g.VerifySignature("order_demo_1", "pay_demo_1", ""))
	assert.ErrorIs(t, g.VerifySignature("order_demo_1", "pay_real_1", ""), ErrSignatureMismatch)
	assert.Equal(t, "demo_key", g.KeyID())
}

func TestDemoModeCreatesLocalOrder(t *testing.T) {
	g := NewRazorpayGateway(config.GatewayConfig{})

	order, err := g.CreateOrder(t.Context(), decimal.RequireFromString("210.00"), "INR", "rcpt-1")
	require.NoError(t, err)
	assert.Contains(t, order.ID, "order_demo_")
	assert.Equal(t, int64(21000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"210.00", 21000},
		{"0.01", 1},
		{"499.99", 49999},
		{"0", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MinorUnits(decimal.RequireFromString(tt.amount)), "amount %s", tt.amount)
	}
}
