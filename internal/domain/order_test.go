package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDraft_Set(t *testing.T) {
	t.Run("symbol is upper-cased", func(t *testing.T) {
		d := NewOrderDraft()
		require.NoError(t, d.Set(FieldSymbol, "aapl"))
		assert.Equal(t, "AAPL", d.Symbol)
	})

	t.Run("switching to market clears limit price", func(t *testing.T) {
		d := NewOrderDraft()
		require.NoError(t, d.Set(FieldOrderType, "limit"))
		require.NoError(t, d.Set(FieldLimitPrice, "250.00"))
		require.NoError(t, d.Set(FieldOrderType, "market"))
		assert.Equal(t, OrderTypeMarket, d.OrderType)
		assert.Empty(t, d.LimitPrice)
	})

	t.Run("switching to limit keeps limit price", func(t *testing.T) {
		d := NewOrderDraft()
		require.NoError(t, d.Set(FieldLimitPrice, "12"))
		require.NoError(t, d.Set(FieldOrderType, "limit"))
		assert.Equal(t, "12", d.LimitPrice)
	})

	t.Run("invalid side is rejected", func(t *testing.T) {
		d := NewOrderDraft()
		assert.Error(t, d.Set(FieldSide, "hold"))
		assert.Equal(t, SideBuy, d.Side)
	})

	t.Run("unknown field", func(t *testing.T) {
		d := NewOrderDraft()
		assert.Error(t, d.Set(DraftField("stop_price"), "1"))
	})
}

func TestOrderRequest_MarshalJSON(t *testing.T) {
	limit := decimal.RequireFromString("250.00")
	tests := []struct {
		name     string
		req      OrderRequest
		expected string
	}{
		{
			name: "market order omits limit price",
			req: OrderRequest{
				Symbol:    "AAPL",
				Quantity:  decimal.NewFromInt(10),
				Side:      SideBuy,
				OrderType: OrderTypeMarket,
			},
			expected: `{"symbol":"AAPL","quantity":10,"side":"buy","order_type":"market"}`,
		},
		{
			name: "limit order carries numeric limit price",
			req: OrderRequest{
				Symbol:     "TSLA",
				Quantity:   decimal.NewFromInt(5),
				Side:       SideSell,
				OrderType:  OrderTypeLimit,
				LimitPrice: &limit,
			},
			expected: `{"symbol":"TSLA","quantity":5,"side":"sell","order_type":"limit","limit_price":250}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := json.Marshal(tt.req)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(payload))
		})
	}
}

func TestOrderRequest_Describe(t *testing.T) {
	limit := decimal.RequireFromString("250.50")
	market := OrderRequest{Symbol: "AAPL", Quantity: decimal.NewFromInt(10), Side: SideBuy, OrderType: OrderTypeMarket}
	assert.Equal(t, "BUY 10 AAPL at market price", market.Describe())

	lim := OrderRequest{Symbol: "TSLA", Quantity: decimal.NewFromInt(5), Side: SideSell, OrderType: OrderTypeLimit, LimitPrice: &limit}
	assert.Equal(t, "SELL 5 TSLA at $250.5", lim.Describe())
}

func TestOrder_UnmarshalJSON(t *testing.T) {
	payload := `{"symbol":"MSFT","side":"buy","qty":"3","order_type":"limit","limit_price":410.5,"status":"new","submitted_at":"2024-01-15T10:00:00Z"}`
	var o Order
	require.NoError(t, json.Unmarshal([]byte(payload), &o))
	assert.Equal(t, "MSFT", o.Symbol)
	assert.True(t, o.Quantity.Equal(decimal.NewFromInt(3)))
	require.NotNil(t, o.LimitPrice)
	assert.True(t, o.LimitPrice.Equal(decimal.RequireFromString("410.5")))
	assert.Nil(t, o.StopPrice)
}

func TestOrder_IsOpen(t *testing.T) {
	for status, open := range map[string]bool{
		"new":              true,
		"partially_filled": true,
		"accepted":         true,
		"filled":           false,
		"Canceled":         false,
		"expired":          false,
		"rejected":         false,
	} {
		assert.Equal(t, open, Order{Status: status}.IsOpen(), status)
	}
}
