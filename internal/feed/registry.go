package feed

import (
	"sort"
	"sync"
)

// Registry is the shared symbol -> price table.
type Registry struct {
	mu     sync.Mutex
	prices map[string]float64
}

// Quote is a single symbol price entry.
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// NewRegistry seeds every symbol with the same initial price.
func NewRegistry(symbols []string, initial float64) *Registry {
	prices := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		prices[s] = initial
	}
	return &Registry{prices: prices}
}

// Perturb multiplies the symbol's price by factor, clamps it to floor and
// returns the new value. Unknown symbols report false.
func (r *Registry) Perturb(symbol string, factor, floor float64) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.prices[symbol]
	if !ok {
		return 0, false
	}
	next := current * factor
	if next < floor {
		next = floor
	}
	r.prices[symbol] = next
	return next, true
}

// Snapshot copies the whole table.
func (r *Registry) Snapshot() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.prices))
	for k, v := range r.prices {
		out[k] = v
	}
	return out
}

// Quotes returns the snapshot sorted by symbol.
func Quotes(prices map[string]float64) []Quote {
	out := make([]Quote, 0, len(prices))
	for s, p := range prices {
		out = append(out, Quote{Symbol: s, Price: p})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
