package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim/internal/errors"
	"tradesim/internal/rng"
)

func TestMeanAndDispersion(t *testing.T) {
	w := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(w, 0), 1e-12)
	assert.InDelta(t, 2.0, Dispersion(w, 0), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), Dispersion(w, 1), 1e-12)
	assert.True(t, math.IsNaN(Dispersion([]float64{1}, 1)))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(StatMean, 3, 99))
	require.NoError(t, Validate(StatDispersion, 3, 2))

	for _, err := range []error{
		Validate(StatMean, 0, 0),
		Validate(StatDispersion, 3, 3),
		Validate(StatDispersion, 3, -1),
		Validate(StatKind(9), 3, 0),
	} {
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument), "got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" STD ")
	require.NoError(t, err)
	assert.Equal(t, StatDispersion, k)
	assert.Equal(t, "dispersion", k.String())

	_, err = ParseKind("median")
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestRolling(t *testing.T) {
	got, err := RollingMean([]float64{100, 101, 102, 103, 104, 105, 106}, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{101, 102, 103, 104, 105}, got, 1e-12)

	got, err = RollingMean([]float64{1, 2}, 3)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = RollingDispersion([]float64{1, 2, 3, 4}, 2, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{math.Sqrt2 / 2, math.Sqrt2 / 2, math.Sqrt2 / 2}, got, 1e-12)
}

func TestReturns(t *testing.T) {
	simple, err := SimpleReturns([]float64{100, 110, 99})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, -0.1}, simple, 1e-12)

	logr, err := LogReturns([]float64{100, 110, 99})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{math.Log(1.1), math.Log(0.9)}, logr, 1e-12)

	_, err = SimpleReturns([]float64{1})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	_, err = LogReturns([]float64{1, 0, 2})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestSimulatePrices(t *testing.T) {
	a, err := SimulatePrices(rng.New(3), 100, 1, 30)
	require.NoError(t, err)
	b, err := SimulatePrices(rng.New(3), 100, 1, 30)
	require.NoError(t, err)
	assert.Len(t, a, 31)
	assert.Equal(t, 100.0, a[0])
	assert.Equal(t, a, b)

	flat, err := SimulatePrices(rng.New(3), 50, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 50, 50, 50, 50, 50}, flat)

	_, err = SimulatePrices(rng.New(3), 0, 1, 5)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	_, err = SimulatePrices(rng.New(3), 1, -1, 5)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	_, err = SimulatePrices(rng.New(3), 1, 1, -1)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}
