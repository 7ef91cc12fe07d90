package schema

import "fmt"

// OrderSide describes order direction.
type OrderSide uint16

const (
	OrderSideUnknown OrderSide = iota
	OrderSideBuy
	OrderSideSell
)

// String returns the lower-case side name.
func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "buy"
	case OrderSideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// MarshalText encodes the side as its name.
func (s OrderSide) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a side name.
func (s *OrderSide) UnmarshalText(text []byte) error {
	switch string(text) {
	case "buy":
		*s = OrderSideBuy
	case "sell":
		*s = OrderSideSell
	default:
		return fmt.Errorf("unknown order side: %q", text)
	}
	return nil
}

// Order is an immutable buy/sell request placed by a trader.
type Order struct {
	ID       uint64    `json:"id"`
	Side     OrderSide `json:"side"`
	Price    float64   `json:"price"`
	Qty      int64     `json:"qty"`
	TraderID int       `json:"traderId"`
}

// StrategyRequest is the fixed risk amount a strategy asks for.
type StrategyRequest struct {
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
}
