// Package domain defines the core data structures shared by the trading client:
// order tickets, account projections, quotes and session state.
package domain

import "strings"

// NormalizeSymbol returns the upper-cased ticker without surrounding whitespace.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
