package rng

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Source is a seedable random source safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a source. A zero seed picks a time-based one.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Fork derives an independent source whose seed is drawn from s.
// Forking serially before spawning workers gives every worker a
// reproducible stream regardless of scheduling.
func (s *Source) Fork() *Source {
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()
	if seed == 0 {
		seed = 1
	}
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NormFloat64 returns a standard normal sample.
func (s *Source) NormFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()
}

// Uniform returns a value in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*s.Float64()
}

// IntRange returns a value in [lo, hi]. The full int64 span is supported.
func (s *Source) IntRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo)
	s.mu.Lock()
	defer s.mu.Unlock()
	if span < math.MaxInt64 {
		return lo + s.rng.Int63n(int64(span)+1)
	}
	for {
		if v := s.rng.Uint64(); v <= span {
			return lo + int64(v)
		}
	}
}

// Duration returns a duration in [lo, hi].
func (s *Source) Duration(lo, hi time.Duration) time.Duration {
	return time.Duration(s.IntRange(int64(lo), int64(hi)))
}

// Bool returns a fair coin flip.
func (s *Source) Bool() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(2) == 1
}
