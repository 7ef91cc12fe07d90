package window

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim/internal/obs"
	"tradesim/internal/rng"
	"tradesim/internal/stats"
)

var demoReturns = []float64{0.01, 0.02, -0.01, 0.03, 0.005, -0.02, 0.015, 0.00, 0.008, -0.005, 0.012, 0.003}

func TestPartition(t *testing.T) {
	assert.Nil(t, Partition(0, 4))
	assert.Equal(t, []Chunk{{0, 5}, {5, 10}}, Partition(10, 2))
	assert.Equal(t, []Chunk{{0, 3}, {3, 6}, {6, 9}, {9, 10}}, Partition(10, 4))
	// ceil(5/4)=2 leaves the fourth chunk empty
	assert.Equal(t, []Chunk{{0, 2}, {2, 4}, {4, 5}}, Partition(5, 4))
	assert.Equal(t, []Chunk{{0, 1}, {1, 2}}, Partition(2, 8))
}

func TestReduceRangeMatchesSerial(t *testing.T) {
	src := rng.New(5)
	input := make([]float64, 257)
	for i := range input {
		input[i] = src.Uniform(-1, 1)
	}

	r := Reducer{}
	for _, w := range []int{1, 3, 20} {
		for _, norm := range []int{0, min(1, w-1)} {
			want := stats.Rolling(input, w, norm, stats.Dispersion)
			for _, k := range []int{1, 2, 4, 7, len(input)} {
				got, err := r.ReduceRange(t.Context(), input, w, k, stats.Dispersion, norm)
				require.NoError(t, err)
				assert.InDeltaSlice(t, want, got, 1e-9, "w=%d k=%d", w, k)
			}
		}
	}
}

func TestReduceRangeDemo(t *testing.T) {
	metrics := obs.NewMetrics()
	r := Reducer{Metrics: metrics}

	got, err := r.ReduceRange(t.Context(), demoReturns, 3, 2, stats.Dispersion, 1)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.InDelta(t, 0.015275252316519466, got[0], 1e-9)
	assert.Equal(t, uint64(2), metrics.Snapshot().WindowChunks)
}

func TestReduceRangeShortInput(t *testing.T) {
	metrics := obs.NewMetrics()
	r := Reducer{Metrics: metrics}
	got, err := r.ReduceRange(t.Context(), []float64{1, 2}, 3, 4, stats.Mean, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, metrics.Snapshot().WindowChunks)
}

func TestReduceRangeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := Reducer{}.ReduceRange(ctx, demoReturns, 3, 2, stats.Mean, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReducePerSeries(t *testing.T) {
	series := map[string][]float64{
		"AAPL": {100, 101, 102, 103, 104, 105, 106},
		"GOOG": {200, 202, 201, 205, 203, 207, 206},
		"TINY": {1, 2},
	}
	got, err := Reducer{}.ReducePerSeries(t.Context(), series, 3, stats.Mean, 0)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.InDeltaSlice(t, []float64{101, 102, 103, 104, 105}, got["AAPL"], 1e-12)
	assert.InDeltaSlice(t, []float64{201, 608.0 / 3, 203, 205, 616.0 / 3}, got["GOOG"], 1e-9)
	assert.NotNil(t, got["TINY"])
	assert.Empty(t, got["TINY"])
}
