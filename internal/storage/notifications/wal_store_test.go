package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

func TestWALStore_SaveAndReplay(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ts := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	for i, msg := range []string{"Order placed successfully: BUY 1 AAPL at market price", "Order failed: market closed"} {
		kind := domain.NotificationSuccess
		if i == 1 {
			kind = domain.NotificationError
		}
		require.NoError(t, store.Save(domain.Notification{
			ID:        string(rune('a' + i)),
			Message:   msg,
			Kind:      kind,
			Timestamp: ts.Add(time.Duration(i) * time.Second),
		}))
	}

	assert.Equal(t, uint64(2), store.CurrentIndex())

	all, err := store.EventsAfter(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint64(1), all[0].Index)
	assert.Equal(t, "a", all[0].Notification.ID)
	assert.Equal(t, domain.NotificationError, all[1].Notification.Kind)
	assert.True(t, ts.Add(time.Second).Equal(all[1].Notification.Timestamp))

	tail, err := store.EventsAfter(1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "Order failed: market closed", tail[0].Notification.Message)

	none, err := store.EventsAfter(2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWALStore_RejectsMissingID(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Save(domain.Notification{Message: "x"}))
	assert.Equal(t, uint64(0), store.CurrentIndex())
}

func TestWALStore_NilStore(t *testing.T) {
	var store *WALStore
	assert.Error(t, store.Save(domain.Notification{ID: "a"}))
	_, err := store.EventsAfter(0)
	assert.Error(t, err)
	assert.Equal(t, uint64(0), store.CurrentIndex())
	assert.Error(t, store.Close())
}
