package domain

import "fmt"

// Side represents the direction of an order.
type Side string

const (
	// SideBuy buys the instrument.
	SideBuy Side = "buy"
	// SideSell sells the instrument.
	SideSell Side = "sell"
)

// String returns the string representation of the side.
func (s Side) String() string {
	return string(s)
}

// IsValid checks if the Side value is valid.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// ParseSide converts a raw string into a Side.
func ParseSide(value string) (Side, error) {
	switch Side(value) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("unsupported order side: %s", value)
}
