package domain

import "time"

// NotificationKind classifies a user-facing message.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// String returns the string representation.
func (k NotificationKind) String() string {
	return string(k)
}

// Notification is a user-facing message.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	Timestamp time.Time        `json:"ts"`
}

// NotificationRecord bundles a notification with the log index it originated from.
type NotificationRecord struct {
	Index        uint64
	Notification Notification
}
