package stats

import (
	"math"

	"tradesim/internal/errors"
	"tradesim/internal/rng"
)

// SimulatePrices walks days steps from s0, adding N(0, sigma) noise each
// step. The result has days+1 entries.
func SimulatePrices(src *rng.Source, s0, sigma float64, days int) ([]float64, error) {
	switch {
	case !(s0 > 0):
		return nil, errors.InvalidArgument("s0 must be > 0, got %v", s0)
	case sigma < 0 || math.IsNaN(sigma):
		return nil, errors.InvalidArgument("sigma must be >= 0, got %v", sigma)
	case days < 0:
		return nil, errors.InvalidArgument("days must be >= 0, got %d", days)
	}

	prices := make([]float64, days+1)
	prices[0] = s0
	for i := 1; i <= days; i++ {
		prices[i] = prices[i-1] + sigma*src.NormFloat64()
	}
	return prices, nil
}
