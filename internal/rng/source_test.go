package rng

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForkIsDeterministic(t *testing.T) {
	a := New(42).Fork()
	b := New(42).Fork()
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRanges(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		u := s.Uniform(-0.01, 0.01)
		assert.True(t, u >= -0.01 && u < 0.01, "uniform out of range: %v", u)

		n := s.IntRange(1, 100)
		assert.True(t, n >= 1 && n <= 100, "int out of range: %d", n)

		d := s.Duration(time.Millisecond, 3*time.Millisecond)
		assert.True(t, d >= time.Millisecond && d <= 3*time.Millisecond, "duration out of range: %v", d)
	}
	assert.Equal(t, 5.0, s.Uniform(5, 5))
	assert.Equal(t, int64(3), s.IntRange(3, 1))
}

func TestConcurrentUse(t *testing.T) {
	s := New(1)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_ = s.Bool()
				_ = s.NormFloat64()
			}
		}()
	}
	wg.Wait()
}

func TestIntRangeFullSpan(t *testing.T) {
	s := New(3)
	for i := 0; i < 200; i++ {
		v := s.IntRange(0, math.MaxInt64)
		assert.GreaterOrEqual(t, v, int64(0))

		_ = s.IntRange(math.MinInt64, math.MaxInt64)

		w := s.IntRange(-5, math.MaxInt64-1)
		assert.GreaterOrEqual(t, w, int64(-5))

		d := s.Duration(0, time.Duration(math.MaxInt64))
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
	assert.Equal(t, int64(math.MaxInt64), s.IntRange(math.MaxInt64, math.MaxInt64))
}
