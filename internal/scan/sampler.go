package scan

import (
	"sync"

	"tradesim/internal/rng"
)

// Sampler produces an observed value for a symbol around a target.
type Sampler interface {
	Sample(symbol string, target float64) float64
}

// Forker is implemented by samplers that can derive an independent stream
// per watcher.
type Forker interface {
	Fork() Sampler
}

// UniformSampler draws values uniformly within target*(1 +/- Variation),
// floored at Floor.
type UniformSampler struct {
	Rand      *rng.Source
	Variation float64
	Floor     float64
}

// Fork returns a copy drawing from a stream forked off s.Rand.
func (s UniformSampler) Fork() Sampler {
	s.Rand = s.Rand.Fork()
	return s
}

func (s UniformSampler) Sample(_ string, target float64) float64 {
	spread := target * s.Variation
	v := s.Rand.Uniform(target-spread, target+spread)
	if v < s.Floor {
		v = s.Floor
	}
	return v
}

// FixedSampler replays preset values per symbol in call order. Once a
// symbol's values are exhausted the last one repeats; unknown symbols
// sample as 0.
type FixedSampler struct {
	mu     sync.Mutex
	values map[string][]float64
	next   map[string]int
}

// NewFixedSampler copies the given per-symbol sequences.
func NewFixedSampler(values map[string][]float64) *FixedSampler {
	copied := make(map[string][]float64, len(values))
	for k, v := range values {
		copied[k] = append([]float64(nil), v...)
	}
	return &FixedSampler{values: copied, next: make(map[string]int, len(values))}
}

func (s *FixedSampler) Sample(symbol string, _ float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.values[symbol]
	if len(seq) == 0 {
		return 0
	}
	i := s.next[symbol]
	if i >= len(seq) {
		i = len(seq) - 1
	}
	s.next[symbol] = i + 1
	return seq[i]
}
