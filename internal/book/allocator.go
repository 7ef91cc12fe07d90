package book

import "sync/atomic"

// IDAllocator hands out strictly increasing order ids starting at 1.
type IDAllocator struct {
	last atomic.Uint64
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns the next id.
func (a *IDAllocator) Next() uint64 {
	return a.last.Add(1)
}

// Last returns the most recently issued id, or 0 if none was issued.
func (a *IDAllocator) Last() uint64 {
	return a.last.Load()
}
