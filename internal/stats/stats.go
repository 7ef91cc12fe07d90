package stats

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"tradesim/internal/errors"
)

// Func reduces one window to a scalar. norm is the delta degrees of freedom
// for dispersion and is ignored by the mean.
type Func func(window []float64, norm int) float64

// StatKind selects a window reduction.
type StatKind int

const (
	StatMean StatKind = iota + 1
	StatDispersion
)

func (k StatKind) String() string {
	switch k {
	case StatMean:
		return "mean"
	case StatDispersion:
		return "dispersion"
	default:
		return "unknown"
	}
}

// ParseKind accepts "mean" or "dispersion" (also "std").
func ParseKind(s string) (StatKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean", "sma":
		return StatMean, nil
	case "dispersion", "std", "volatility":
		return StatDispersion, nil
	default:
		return 0, errors.InvalidArgument("unknown stat kind %q", s)
	}
}

// For returns the reduction for kind.
func For(kind StatKind) (Func, error) {
	switch kind {
	case StatMean:
		return Mean, nil
	case StatDispersion:
		return Dispersion, nil
	default:
		return nil, errors.InvalidArgument("unknown stat kind %d", int(kind))
	}
}

// Validate checks window and norm for kind.
func Validate(kind StatKind, window, norm int) error {
	if window <= 0 {
		return errors.InvalidArgument("window must be > 0, got %d", window)
	}
	if _, err := For(kind); err != nil {
		return err
	}
	if kind == StatDispersion && (norm < 0 || norm >= window) {
		return errors.InvalidArgument("norm must be in [0, %d), got %d", window, norm)
	}
	return nil
}

// Mean is the arithmetic mean of the window.
func Mean(window []float64, _ int) float64 {
	if len(window) == 0 {
		return math.NaN()
	}
	return stat.Mean(window, nil)
}

// Dispersion is sqrt(sum((x-mean)^2) / (len(window) - norm)).
func Dispersion(window []float64, norm int) float64 {
	n := len(window)
	if n == 0 || norm >= n {
		return math.NaN()
	}
	// Moment(2) is the population central moment, sum of squares over n.
	ss := stat.Moment(2, window, nil) * float64(n)
	return math.Sqrt(ss / float64(n-norm))
}

// Rolling applies fn to every full window of input serially.
func Rolling(input []float64, window, norm int, fn Func) []float64 {
	m := len(input) - window + 1
	if window <= 0 || m <= 0 {
		return []float64{}
	}
	out := make([]float64, m)
	for i := range out {
		out[i] = fn(input[i:i+window], norm)
	}
	return out
}

// RollingMean is the serial simple moving average.
func RollingMean(input []float64, window int) ([]float64, error) {
	if err := Validate(StatMean, window, 0); err != nil {
		return nil, err
	}
	return Rolling(input, window, 0, Mean), nil
}

// RollingDispersion is the serial rolling standard deviation.
func RollingDispersion(input []float64, window, norm int) ([]float64, error) {
	if err := Validate(StatDispersion, window, norm); err != nil {
		return nil, err
	}
	return Rolling(input, window, norm, Dispersion), nil
}

func checkPrices(prices []float64) error {
	if len(prices) < 2 {
		return errors.InvalidArgument("need at least 2 prices, got %d", len(prices))
	}
	for i, p := range prices {
		if !(p > 0) {
			return errors.InvalidArgument("price %d must be > 0, got %v", i, p)
		}
	}
	return nil
}

// SimpleReturns computes p[t]/p[t-1] - 1.
func SimpleReturns(prices []float64) ([]float64, error) {
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = prices[i]/prices[i-1] - 1
	}
	return out, nil
}

// LogReturns computes ln(p[t]/p[t-1]).
func LogReturns(prices []float64) ([]float64, error) {
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return out, nil
}
