package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineItem_Defaults(t *testing.T) {
	item := NewLineItem(Candidate{
		ProductID:        "p-1",
		ProductVariantID: "v-1",
		Price:            decimal.NewFromInt(28000),
	})

	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "", item.Note)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(28000)))
	assert.True(t, item.Price.Equal(decimal.NewFromInt(28000)))
}

func TestNewLineItem_KeepsNote(t *testing.T) {
	note := "less sugar"
	item := NewLineItem(Candidate{ProductVariantID: "v-1", Price: decimal.NewFromInt(1), Note: &note})
	assert.Equal(t, "less sugar", item.Note)
}

func TestLineItem_WithQuantity(t *testing.T) {
	item := NewLineItem(Candidate{ProductVariantID: "v-1", Price: decimal.RequireFromString("12500.50")})

	three := item.WithQuantity(3)
	assert.Equal(t, 3, three.Quantity)
	assert.Equal(t, "37501.5", three.Price.String())

	// original untouched
	assert.Equal(t, 1, item.Quantity)
}

func TestParseOrderType(t *testing.T) {
	for in, want := range map[string]OrderType{
		"DINE_IN":    OrderTypeDineIn,
		"take_away":  OrderTypeTakeAway,
		" DELIVERY ": OrderTypeDelivery,
	} {
		got, err := ParseOrderType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseOrderType("DRIVE_THRU")
	assert.ErrorIs(t, err, ErrUnknownOrderType)
}

func TestCheckoutResult_Created(t *testing.T) {
	assert.True(t, CheckoutResult{Code: "CREATED", OrderID: "o-1"}.Created())
	assert.False(t, CheckoutResult{Code: "BAD_REQUEST"}.Created())
}
