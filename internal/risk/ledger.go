package risk

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger is a capacity-bounded risk budget shared by strategy workers.
type Ledger struct {
	mu        sync.Mutex
	capacity  decimal.Decimal
	total     decimal.Decimal
	allocated map[string]decimal.Decimal
}

// NewLedger creates a ledger with every named strategy at zero.
func NewLedger(capacity float64, names []string) *Ledger {
	allocated := make(map[string]decimal.Decimal, len(names))
	for _, name := range names {
		allocated[name] = decimal.Zero
	}
	return &Ledger{
		capacity:  decimal.NewFromFloat(capacity),
		total:     decimal.Zero,
		allocated: allocated,
	}
}

// TryAllocate grants amount to name if it fits the remaining capacity.
// A grant is all-or-nothing.
func (l *Ledger) TryAllocate(name string, amount float64) bool {
	want := decimal.NewFromFloat(amount)
	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.total.Add(want)
	if next.GreaterThan(l.capacity) {
		return false
	}
	l.total = next
	l.allocated[name] = l.allocated[name].Add(want)
	return true
}

// Total returns the sum of all grants.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total.InexactFloat64()
}

// Remaining returns the unallocated capacity.
func (l *Ledger) Remaining() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capacity.Sub(l.total).InexactFloat64()
}

// Snapshot copies the allocation table.
func (l *Ledger) Snapshot() map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]float64, len(l.allocated))
	for name, amount := range l.allocated {
		out[name] = amount.InexactFloat64()
	}
	return out
}
