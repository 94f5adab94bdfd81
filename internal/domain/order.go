package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DraftField names an editable field of an OrderDraft.
type DraftField string

const (
	FieldSymbol     DraftField = "symbol"
	FieldQuantity   DraftField = "quantity"
	FieldSide       DraftField = "side"
	FieldOrderType  DraftField = "order_type"
	FieldLimitPrice DraftField = "limit_price"
)

// OrderDraft holds raw, unvalidated order ticket input exactly as the user typed it.
type OrderDraft struct {
	Symbol     string
	Quantity   string
	Side       Side
	OrderType  OrderType
	LimitPrice string
}

// NewOrderDraft returns an empty ticket: buy at market.
func NewOrderDraft() OrderDraft {
	return OrderDraft{
		Side:      SideBuy,
		OrderType: OrderTypeMarket,
	}
}

// Set merges a single field into the draft. Switching the order type to market
// clears the limit price, which has no meaning for market orders.
func (d *OrderDraft) Set(field DraftField, value string) error {
	switch field {
	case FieldSymbol:
		d.Symbol = NormalizeSymbol(value)
	case FieldQuantity:
		d.Quantity = value
	case FieldSide:
		side, err := ParseSide(value)
		if err != nil {
			return err
		}
		d.Side = side
	case FieldOrderType:
		orderType, err := ParseOrderType(value)
		if err != nil {
			return err
		}
		d.OrderType = orderType
		if orderType == OrderTypeMarket {
			d.LimitPrice = ""
		}
	case FieldLimitPrice:
		d.LimitPrice = value
	default:
		return fmt.Errorf("unknown order field: %s", field)
	}
	return nil
}

// OrderRequest is the validated order sent to the service.
type OrderRequest struct {
	Symbol    string
	Quantity  decimal.Decimal
	Side      Side
	OrderType OrderType
	// LimitPrice is set only for limit orders.
	LimitPrice *decimal.Decimal
}

type orderRequestWire struct {
	Symbol     string       `json:"symbol"`
	Quantity   json.Number  `json:"quantity"`
	Side       Side         `json:"side"`
	OrderType  OrderType    `json:"order_type"`
	LimitPrice *json.Number `json:"limit_price,omitempty"`
}

// MarshalJSON encodes amounts as JSON numbers, the format the service expects.
func (r OrderRequest) MarshalJSON() ([]byte, error) {
	wire := orderRequestWire{
		Symbol:    r.Symbol,
		Quantity:  json.Number(r.Quantity.String()),
		Side:      r.Side,
		OrderType: r.OrderType,
	}
	if r.LimitPrice != nil {
		n := json.Number(r.LimitPrice.String())
		wire.LimitPrice = &n
	}
	return json.Marshal(wire)
}

// Describe returns a short human-readable summary, e.g. "BUY 10 AAPL at market price".
func (r OrderRequest) Describe() string {
	if r.OrderType == OrderTypeLimit && r.LimitPrice != nil {
		return fmt.Sprintf("%s %s %s at $%s", UpperSide(r.Side), r.Quantity.String(), r.Symbol, r.LimitPrice.String())
	}
	return fmt.Sprintf("%s %s %s at market price", UpperSide(r.Side), r.Quantity.String(), r.Symbol)
}

// UpperSide returns the side in upper case, as shown in confirmations and notifications.
func UpperSide(s Side) string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	}
	return string(s)
}

// OrderReceipt is the service acknowledgement of a placed order.
type OrderReceipt struct {
	ID        string    `json:"id,omitempty"`
	OrderType OrderType `json:"order_type"`
	Status    string    `json:"status,omitempty"`
}

// Order is a read-only projection of an order known to the service.
type Order struct {
	ID             string           `json:"id,omitempty"`
	Symbol         string           `json:"symbol"`
	Side           Side             `json:"side"`
	Quantity       decimal.Decimal  `json:"qty"`
	OrderType      OrderType        `json:"order_type"`
	LimitPrice     *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice      *decimal.Decimal `json:"stop_price,omitempty"`
	FilledQty      *decimal.Decimal `json:"filled_qty,omitempty"`
	FilledAvgPrice *decimal.Decimal `json:"filled_avg_price,omitempty"`
	Status         string           `json:"status"`
	SubmittedAt    time.Time        `json:"submitted_at"`
}

// IsOpen reports whether the order can still be executed.
func (o Order) IsOpen() bool {
	switch strings.ToLower(o.Status) {
	case "filled", "canceled", "cancelled", "expired", "rejected":
		return false
	default:
		return true
	}
}

// Fill converts the executed part of the order into a Trade.
// It reports false when nothing has been filled.
func (o Order) Fill() (Trade, bool) {
	if o.FilledQty == nil || o.FilledAvgPrice == nil || !o.FilledQty.IsPositive() {
		return Trade{}, false
	}
	return Trade{
		ID:       o.ID,
		Symbol:   o.Symbol,
		Side:     o.Side,
		Quantity: *o.FilledQty,
		Price:    *o.FilledAvgPrice,
		Date:     o.SubmittedAt,
	}, true
}
