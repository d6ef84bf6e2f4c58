package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	catalog "github.com/qtremors/amanzon/internal/catalog/domain"
)

func product(id uint, price string) *catalog.Product {
	p := &catalog.Product{Price: decimal.RequireFromString(price)}
	p.ID = id
	return p
}

func TestCartSubtotalUsesLivePrices(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: 1, Product: product(1, "99.99"), Quantity: 2},
		{ProductID: 2, Product: product(2, "0.01"), Quantity: 3},
	}}

	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("200.01")),
		"got %s", cart.Subtotal())
	assert.Equal(t, 5, cart.TotalItems())
}

func TestCartSubtotalEmpty(t *testing.T) {
	cart := &Cart{}
	assert.True(t, cart.Subtotal().IsZero())
	assert.True(t, cart.IsEmpty())
}

func TestCartItemLookup(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{ProductID: 7, Quantity: 1},
	}}

	assert.NotNil(t, cart.Item(7))
	assert.Nil(t, cart.Item(8))
}

func TestLineTotalWithoutProductIsZero(t *testing.T) {
	item := &CartItem{ProductID: 3, Quantity: 4}
	assert.True(t, item.LineTotal().IsZero())
}
