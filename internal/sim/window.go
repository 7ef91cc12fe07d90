package sim

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"tradesim/internal/errors"
	"tradesim/internal/stats"
)

// ComputeWindowedStat reduces every full window of series with kind,
// splitting the work across workers. A series shorter than window yields
// an empty result.
func (s *Simulator) ComputeWindowedStat(ctx context.Context, series []float64, window, workers int, kind stats.StatKind, norm int) (_ []float64, err error) {
	if err := stats.Validate(kind, window, norm); err != nil {
		return nil, err
	}
	if err := positiveCount("workers", workers); err != nil {
		return nil, err
	}
	if err := finiteSeries("series", series, true); err != nil {
		return nil, err
	}
	fn, _ := stats.For(kind)

	ctx, r := s.begin(ctx, "windowed_stat",
		attribute.String("kind", kind.String()),
		attribute.Int("len", len(series)),
		attribute.Int("window", window),
		attribute.Int("workers", workers),
	)
	defer func() { r.end(err) }()

	return s.reducer.ReduceRange(ctx, series, window, workers, fn, norm)
}

// ComputeWindowedStatPerSeries reduces each named price series on its own
// worker. Prices must not be negative.
func (s *Simulator) ComputeWindowedStatPerSeries(ctx context.Context, seriesMap map[string][]float64, window int, kind stats.StatKind, norm int) (_ map[string][]float64, err error) {
	if err := stats.Validate(kind, window, norm); err != nil {
		return nil, err
	}
	if len(seriesMap) == 0 {
		return nil, errors.InvalidArgument("series map must not be empty")
	}
	for name, values := range seriesMap {
		if name == "" {
			return nil, errors.InvalidArgument("series name must not be empty")
		}
		if err := finiteSeries(name, values, false); err != nil {
			return nil, err
		}
	}
	fn, _ := stats.For(kind)

	ctx, r := s.begin(ctx, "windowed_stat_per_series",
		attribute.String("kind", kind.String()),
		attribute.Int("series", len(seriesMap)),
		attribute.Int("window", window),
	)
	defer func() { r.end(err) }()

	return s.reducer.ReducePerSeries(ctx, seriesMap, window, fn, norm)
}
