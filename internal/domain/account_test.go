package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarizePositions(t *testing.T) {
	summary := SummarizePositions(nil)
	assert.Equal(t, 0, summary.Count)
	assert.True(t, summary.TotalMarketValue.IsZero())

	summary = SummarizePositions([]Position{
		{Symbol: "AAPL", MarketValue: decimal.NewFromInt(1500), UnrealizedPnL: decimal.NewFromInt(120)},
		{Symbol: "TSLA", MarketValue: decimal.NewFromInt(2500), UnrealizedPnL: decimal.NewFromInt(-300)},
	})
	assert.Equal(t, 2, summary.Count)
	assert.True(t, summary.TotalMarketValue.Equal(decimal.NewFromInt(4000)))
	assert.True(t, summary.TotalUnrealizedPnL.Equal(decimal.NewFromInt(-180)))
}

func TestNewAccountSnapshotRecord(t *testing.T) {
	ts := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	rec := NewAccountSnapshotRecord(ts, TradingModeLive, AccountSnapshot{
		PortfolioValue: decimal.RequireFromString("100000.50"),
		BuyingPower:    decimal.NewFromInt(200000),
		Cash:           decimal.NewFromInt(50000),
	})
	assert.Equal(t, ts, rec.Timestamp)
	assert.Equal(t, TradingModeLive, rec.Mode)
	assert.Equal(t, "100000.5", rec.PortfolioValue)
	assert.Equal(t, "200000", rec.BuyingPower)
}

func TestNote_Tags(t *testing.T) {
	n := Note{Title: "t", Content: "c"}
	assert.True(t, n.AddTag(" earnings "))
	assert.False(t, n.AddTag("earnings"))
	assert.False(t, n.AddTag("  "))
	assert.True(t, n.AddTag("tech"))
	assert.Equal(t, []string{"earnings", "tech"}, n.Tags)

	n.RemoveTag("earnings")
	assert.Equal(t, []string{"tech"}, n.Tags)
	assert.NoError(t, n.Validate())

	assert.ErrorIs(t, Note{Title: "only title"}.Validate(), ErrNoteIncomplete)
}
