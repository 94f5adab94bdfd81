package domain

import "fmt"

// OrderType type of order execution.
type OrderType string

const (
	// OrderTypeMarket executes at the current market price.
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit executes at the limit price or better.
	OrderTypeLimit OrderType = "limit"
)

// String returns the string representation.
func (o OrderType) String() string {
	return string(o)
}

// IsValid checks if the OrderType value is valid.
func (o OrderType) IsValid() bool {
	return o == OrderTypeMarket || o == OrderTypeLimit
}

// ParseOrderType converts a raw string into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	switch OrderType(value) {
	case OrderTypeMarket:
		return OrderTypeMarket, nil
	case OrderTypeLimit:
		return OrderTypeLimit, nil
	}
	return "", fmt.Errorf("unsupported order type: %s", value)
}
