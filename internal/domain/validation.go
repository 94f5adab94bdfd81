package domain

// SymbolCheck is the service answer to a tradability lookup.
type SymbolCheck struct {
	Symbol   string `json:"symbol,omitempty"`
	Tradable bool   `json:"tradable"`
	Message  string `json:"message"`
}

// SymbolValidation is the client-side view of the latest completed lookup.
type SymbolValidation struct {
	Valid   bool
	Message string
	// Pending is true while a lookup for the current symbol is in flight.
	Pending bool
}

// EmptySymbolValidation is the state for an empty symbol: valid, no message.
func EmptySymbolValidation() SymbolValidation {
	return SymbolValidation{Valid: true}
}
