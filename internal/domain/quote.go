package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a real-time price snapshot for a symbol.
type Quote struct {
	Symbol        string           `json:"symbol"`
	CompanyName   string           `json:"company_name,omitempty"`
	CurrentPrice  decimal.Decimal  `json:"current_price"`
	Change        decimal.Decimal  `json:"change"`
	ChangePercent decimal.Decimal  `json:"change_percent"`
	High          decimal.Decimal  `json:"high"`
	Low           decimal.Decimal  `json:"low"`
	Open          decimal.Decimal  `json:"open"`
	PreviousClose decimal.Decimal  `json:"previous_close"`
	MarketCap     *decimal.Decimal `json:"market_cap,omitempty"`
}

// PricePoint is a single observed price.
type PricePoint struct {
	Time  time.Time       `json:"ts"`
	Price decimal.Decimal `json:"price"`
}

// StockMatch is a single symbol search result.
type StockMatch struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}
