package book

import (
	"sync"

	"tradesim/internal/schema"
)

// OrderBook is an append-only, two-sided order ledger.
type OrderBook struct {
	mu   sync.Mutex
	buy  []schema.Order
	sell []schema.Order
}

// BookSnapshot is a point-in-time copy of both sides.
type BookSnapshot struct {
	Buy  []schema.Order `json:"buy"`
	Sell []schema.Order `json:"sell"`
}

// Len returns the total number of orders in the snapshot.
func (s BookSnapshot) Len() int {
	return len(s.Buy) + len(s.Sell)
}

// All returns buy orders followed by sell orders.
func (s BookSnapshot) All() []schema.Order {
	out := make([]schema.Order, 0, s.Len())
	out = append(out, s.Buy...)
	return append(out, s.Sell...)
}

// NewOrderBook creates an empty book.
func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Place appends the order to the given side. Unknown sides are ignored.
func (b *OrderBook) Place(side schema.OrderSide, order schema.Order) {
	b.mu.Lock()
	switch side {
	case schema.OrderSideBuy:
		b.buy = append(b.buy, order)
	case schema.OrderSideSell:
		b.sell = append(b.sell, order)
	}
	b.mu.Unlock()
}

// Len returns the number of orders currently in the book.
func (b *OrderBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buy) + len(b.sell)
}

// Snapshot copies both sides.
func (b *OrderBook) Snapshot() BookSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BookSnapshot{
		Buy:  append([]schema.Order(nil), b.buy...),
		Sell: append([]schema.Order(nil), b.sell...),
	}
}
