package domain

// User is the authenticated account holder.
type User struct {
	ID          string          `json:"id,omitempty"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	TradingMode TradingMode     `json:"trading_mode,omitempty"`
	APIStatus   map[string]bool `json:"api_status,omitempty"`
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        User   `json:"user"`
}

// BrokerAccount describes a brokerage account the user can switch to.
type BrokerAccount struct {
	Mode        TradingMode `json:"mode"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Valid       bool        `json:"valid"`
}

// ModeSwitchResult is the service answer to a trading mode switch.
type ModeSwitchResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
