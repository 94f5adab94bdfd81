package domain

import "time"

// APIKey is a brokerage credential registered with the service. Secrets are write-only.
type APIKey struct {
	ID          string      `json:"id,omitempty"`
	Provider    string      `json:"provider"`
	APIKey      string      `json:"api_key,omitempty"`
	SecretKey   string      `json:"secret_key,omitempty"`
	Environment TradingMode `json:"environment"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
}

// DefaultKeyProvider is the only brokerage the service integrates with.
const DefaultKeyProvider = "alpaca"
