// Package chart computes the statistics shown next to a symbol chart.
package chart

import (
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

// PnL is the average-cost profit and loss of a trade history.
type PnL struct {
	TotalBought     decimal.Decimal `json:"total_bought"`
	TotalSold       decimal.Decimal `json:"total_sold"`
	AvgBuyPrice     decimal.Decimal `json:"avg_buy_price"`
	CurrentPosition decimal.Decimal `json:"current_position"`
	RealizedPnL     decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnL   decimal.Decimal `json:"unrealized_pnl"`
	TotalPnL        decimal.Decimal `json:"total_pnl"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
}

// CalculatePnL values trades at currentPrice using the average buy price as cost basis.
// Sells are matched against the overall average, not lot by lot.
func CalculatePnL(trades []domain.Trade, currentPrice decimal.Decimal) PnL {
	totalBought, totalCost := decimal.Zero, decimal.Zero
	totalSold, totalRevenue := decimal.Zero, decimal.Zero

	for _, t := range trades {
		switch t.Side {
		case domain.SideBuy:
			totalBought = totalBought.Add(t.Quantity)
			totalCost = totalCost.Add(t.Quantity.Mul(t.Price))
		case domain.SideSell:
			totalSold = totalSold.Add(t.Quantity)
			totalRevenue = totalRevenue.Add(t.Quantity.Mul(t.Price))
		}
	}

	avgBuyPrice := decimal.Zero
	if totalBought.IsPositive() {
		avgBuyPrice = totalCost.Div(totalBought)
	}

	realized := totalRevenue.Sub(totalSold.Mul(avgBuyPrice))
	position := totalBought.Sub(totalSold)

	unrealized := decimal.Zero
	if position.IsPositive() {
		unrealized = currentPrice.Sub(avgBuyPrice).Mul(position)
	}

	return PnL{
		TotalBought:     totalBought,
		TotalSold:       totalSold,
		AvgBuyPrice:     avgBuyPrice,
		CurrentPosition: position,
		RealizedPnL:     realized,
		UnrealizedPnL:   unrealized,
		TotalPnL:        realized.Add(unrealized),
		CurrentPrice:    currentPrice,
	}
}

// LastPrice returns the most recent price of a history, or zero when it is empty.
func LastPrice(history []domain.PricePoint) decimal.Decimal {
	if len(history) == 0 {
		return decimal.Zero
	}
	return history[len(history)-1].Price
}

// TradesFromOrders collects the filled orders for symbol, oldest first as returned.
func TradesFromOrders(orders []domain.Order, symbol string) []domain.Trade {
	symbol = domain.NormalizeSymbol(symbol)
	trades := make([]domain.Trade, 0, len(orders))
	for _, o := range orders {
		if domain.NormalizeSymbol(o.Symbol) != symbol {
			continue
		}
		if t, ok := o.Fill(); ok {
			trades = append(trades, t)
		}
	}
	return trades
}
