package notify

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

type notificationSaver interface {
	Save(n domain.Notification) error
}

// StoreSink appends every message to the notification history.
// A failed write is logged and otherwise ignored.
type StoreSink struct {
	store  notificationSaver
	logger *zap.Logger
	now    func() time.Time
}

// NewStoreSink creates a sink persisting into store.
func NewStoreSink(store notificationSaver, logger *zap.Logger) *StoreSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreSink{store: store, logger: logger, now: time.Now}
}

// Notify persists the message.
func (s *StoreSink) Notify(message string, kind domain.NotificationKind) {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		Timestamp: s.now().UTC(),
	}
	if err := s.store.Save(n); err != nil {
		s.logger.Warn("failed to persist notification", zap.String("id", n.ID), zap.Error(err))
	}
}
