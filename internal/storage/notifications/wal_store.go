package notifications

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

const (
	defaultNotificationDir   = "./wal/notifications"
	notificationSegmentLimit = 1000
	notificationMaxSegments  = 50
	notificationKeyPrefix    = "notification_"
)

// WALStore keeps the notification history in a WAL so the dashboard can replay it.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens the notification log under dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultNotificationDir
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "notification_",
		SegmentThreshold: notificationSegmentLimit,
		MaxSegments:      notificationMaxSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init notification WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends a notification.
func (s *WALStore) Save(n domain.Notification) error {
	if s == nil || s.wal == nil {
		return errors.New("notification store is not initialized")
	}
	if n.ID == "" {
		return errors.New("notification id is required")
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "marshal notification")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Write(s.wal.CurrentIndex()+1, fmt.Sprintf("%s%s", notificationKeyPrefix, n.ID), payload)
}

// EventsAfter returns notifications written after index, oldest first.
func (s *WALStore) EventsAfter(index uint64) ([]domain.NotificationRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("notification store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.NotificationRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, notificationKeyPrefix) {
			continue
		}
		var n domain.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, errors.Wrap(err, "decode notification")
		}
		records = append(records, domain.NotificationRecord{Index: idx, Notification: n})
	}

	return records, nil
}

// CurrentIndex returns the index of the latest notification.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("notification store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
