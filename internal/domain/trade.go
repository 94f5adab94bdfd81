package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an executed fill used for P&L statistics.
type Trade struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Side     Side            `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Date     time.Time       `json:"date"`
}
