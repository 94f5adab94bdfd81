package orderintake

import (
	"fmt"
	"strings"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

const (
	msgInvalidLimitPrice     = "Limit price is required for limit orders and must be greater than 0."
	msgInvalidQuantity       = "Quantity is required and must be greater than 0."
	msgValidationUnavailable = "Unable to validate symbol"
	msgSymbolNotTradable     = "Symbol is not tradable"
	msgServiceUnavailable    = "unable to reach the trading service"
)

// ConfirmationPrompt is the real-money warning shown before a live order is placed.
func ConfirmationPrompt(draft domain.OrderDraft) string {
	var price string
	if draft.OrderType == domain.OrderTypeLimit {
		price = fmt.Sprintf(" at $%s", draft.LimitPrice)
	}

	return fmt.Sprintf("LIVE TRADING CONFIRMATION\n\n"+
		"You are about to place a %s %s order%s for %s shares of %s using REAL MONEY.\n\n"+
		"This action cannot be undone. Continue?",
		domain.UpperSide(draft.Side),
		strings.ToUpper(draft.OrderType.String()),
		price,
		draft.Quantity,
		domain.NormalizeSymbol(draft.Symbol))
}
