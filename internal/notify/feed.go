package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

const (
	// DefaultFeedSize is how many notifications stay visible at once.
	DefaultFeedSize = 5
	// DefaultFeedTTL is how long a notification stays visible.
	DefaultFeedTTL = 5 * time.Second
)

// Feed keeps the most recent notifications for display. Entries expire
// after the TTL and the oldest entry is evicted once the feed is full.
type Feed struct {
	mu      sync.Mutex
	items   []domain.Notification
	size    int
	ttl     time.Duration
	now     func() time.Time
	watcher chan struct{}
}

// FeedOption configures the Feed.
type FeedOption func(*Feed)

// WithFeedSize sets the maximum number of visible notifications.
func WithFeedSize(n int) FeedOption {
	return func(f *Feed) {
		if n > 0 {
			f.size = n
		}
	}
}

// WithFeedTTL sets the visibility window of a notification.
func WithFeedTTL(d time.Duration) FeedOption {
	return func(f *Feed) {
		if d > 0 {
			f.ttl = d
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) FeedOption {
	return func(f *Feed) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFeed creates an empty feed.
func NewFeed(opts ...FeedOption) *Feed {
	f := &Feed{
		size:    DefaultFeedSize,
		ttl:     DefaultFeedTTL,
		now:     time.Now,
		watcher: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Notify appends a notification, evicting the oldest beyond the feed size.
func (f *Feed) Notify(message string, kind domain.NotificationKind) {
	f.Push(domain.Notification{Message: message, Kind: kind})
}

// Push appends a prepared notification, filling in missing id and timestamp.
func (f *Feed) Push(n domain.Notification) domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = f.now()
	}

	f.pruneLocked()
	f.items = append(f.items, n)
	if len(f.items) > f.size {
		f.items = append([]domain.Notification(nil), f.items[len(f.items)-f.size:]...)
	}

	select {
	case f.watcher <- struct{}{}:
	default:
	}
	return n
}

// Active returns the visible notifications, oldest first.
func (f *Feed) Active() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pruneLocked()
	return append([]domain.Notification(nil), f.items...)
}

// Dismiss removes a notification by id.
func (f *Feed) Dismiss(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, n := range f.items {
		if n.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}

// Changed signals after a push. Signals coalesce while unread.
func (f *Feed) Changed() <-chan struct{} {
	return f.watcher
}

func (f *Feed) pruneLocked() {
	cutoff := f.now().Add(-f.ttl)
	kept := f.items[:0]
	for _, n := range f.items {
		if n.Timestamp.After(cutoff) {
			kept = append(kept, n)
		}
	}
	f.items = kept
}
