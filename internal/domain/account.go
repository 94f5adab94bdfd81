package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSnapshot is the account state reported by the service.
type AccountSnapshot struct {
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	BuyingPower    decimal.Decimal `json:"buying_power"`
	Cash           decimal.Decimal `json:"cash"`
	DayTradeCount  int             `json:"day_trade_count"`
	Status         string          `json:"status,omitempty"`
}

// Position is a single holding reported by the service.
type Position struct {
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	AvgCost       decimal.Decimal `json:"avg_cost"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
}

// PositionsSummary aggregates a list of positions.
type PositionsSummary struct {
	Count              int             `json:"count"`
	TotalMarketValue   decimal.Decimal `json:"total_market_value"`
	TotalUnrealizedPnL decimal.Decimal `json:"total_unrealized_pnl"`
}

// SummarizePositions sums market value and unrealized P&L over positions.
func SummarizePositions(positions []Position) PositionsSummary {
	summary := PositionsSummary{
		Count:              len(positions),
		TotalMarketValue:   decimal.Zero,
		TotalUnrealizedPnL: decimal.Zero,
	}
	for _, p := range positions {
		summary.TotalMarketValue = summary.TotalMarketValue.Add(p.MarketValue)
		summary.TotalUnrealizedPnL = summary.TotalUnrealizedPnL.Add(p.UnrealizedPnL)
	}
	return summary
}

// AccountSnapshotRecord is an account snapshot as persisted in the history log.
// String fields avoid precision issues when rendered in UI layers.
type AccountSnapshotRecord struct {
	Timestamp      time.Time   `json:"ts"`
	Mode           TradingMode `json:"mode"`
	PortfolioValue string      `json:"portfolio_value"`
	BuyingPower    string      `json:"buying_power"`
	Cash           string      `json:"cash"`
}

// NewAccountSnapshotRecord converts an account snapshot into its persisted form.
func NewAccountSnapshotRecord(ts time.Time, mode TradingMode, account AccountSnapshot) AccountSnapshotRecord {
	return AccountSnapshotRecord{
		Timestamp:      ts,
		Mode:           mode,
		PortfolioValue: account.PortfolioValue.String(),
		BuyingPower:    account.BuyingPower.String(),
		Cash:           account.Cash.String(),
	}
}

// IndexedAccountSnapshot bundles a snapshot record with the log index it originated from.
type IndexedAccountSnapshot struct {
	Index    uint64
	Snapshot AccountSnapshotRecord
}
