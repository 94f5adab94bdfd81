package accountsnapshots

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
	defaultSnapshotDir   = "./wal/account"
	snapshotSegmentLimit = 1000
	snapshotMaxSegments  = 100
	snapshotKeyPrefix    = "account_snapshot_"
)

// WALStore persists account snapshots so the dashboard can chart portfolio value over time.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed snapshot store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultSnapshotDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "snapshot_",
		SegmentThreshold: snapshotSegmentLimit,
		MaxSegments:      snapshotMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init account snapshot WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save writes the snapshot to WAL. Callers must set snapshot.Mode.
func (s *WALStore) Save(snapshot domain.AccountSnapshotRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("account snapshot store is not initialized")
	}
	if !snapshot.Mode.IsValid() {
		return fmt.Errorf("account snapshot mode is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal account snapshot")
	}

	key := fmt.Sprintf("%s%s", snapshotKeyPrefix, snapshot.Mode)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// SnapshotsAfter returns all account snapshots written after the provided WAL index.
func (s *WALStore) SnapshotsAfter(index uint64) ([]domain.IndexedAccountSnapshot, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("account snapshot store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.IndexedAccountSnapshot, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, snapshotKeyPrefix) {
			continue
		}
		var snapshot domain.AccountSnapshotRecord
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode account snapshot")
		}
		records = append(records, domain.IndexedAccountSnapshot{Index: idx, Snapshot: snapshot})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
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
		return errors.New("account snapshot store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
