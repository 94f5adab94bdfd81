package accountsnapshots

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

func TestWALStore_SaveAndReplay(t *testing.T) {
	dir := t.TempDir()
	store, err := NewWALStore(dir)
	require.NoError(t, err)

	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	account := domain.AccountSnapshot{
		PortfolioValue: decimal.RequireFromString("100250.75"),
		BuyingPower:    decimal.RequireFromString("50000"),
		Cash:           decimal.RequireFromString("25000.5"),
	}
	require.NoError(t, store.Save(domain.NewAccountSnapshotRecord(ts, domain.TradingModePaper, account)))
	require.NoError(t, store.Save(domain.NewAccountSnapshotRecord(ts.Add(time.Minute), domain.TradingModeLive, account)))

	records, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "100250.75", records[0].Snapshot.PortfolioValue)
	assert.Equal(t, domain.TradingModePaper, records[0].Snapshot.Mode)
	assert.Equal(t, domain.TradingModeLive, records[1].Snapshot.Mode)
	assert.Equal(t, uint64(2), records[1].Index)

	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, uint64(2), reopened.CurrentIndex())
	tail, err := reopened.SnapshotsAfter(1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "25000.5", tail[0].Snapshot.Cash)
}

func TestWALStore_RequiresMode(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Save(domain.AccountSnapshotRecord{PortfolioValue: "1"}))
}
