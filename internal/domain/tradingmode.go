package domain

import "fmt"

// TradingMode selects between the simulated and the real-money account.
type TradingMode string

const (
	// TradingModePaper simulated trading.
	TradingModePaper TradingMode = "paper"
	// TradingModeLive real-money trading.
	TradingModeLive TradingMode = "live"
)

// String returns the string representation.
func (m TradingMode) String() string {
	return string(m)
}

// IsValid checks if the TradingMode value is valid.
func (m TradingMode) IsValid() bool {
	return m == TradingModePaper || m == TradingModeLive
}

// ParseTradingMode converts a raw string into a TradingMode.
// An empty string is treated as paper, the service default.
func ParseTradingMode(value string) (TradingMode, error) {
	switch TradingMode(value) {
	case "", TradingModePaper:
		return TradingModePaper, nil
	case TradingModeLive:
		return TradingModeLive, nil
	}
	return "", fmt.Errorf("unsupported trading mode: %s", value)
}
