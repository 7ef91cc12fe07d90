package window

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tradesim/internal/obs"
	"tradesim/internal/stats"
)

// Chunk is a half-open range [Start, End) of window start indices.
type Chunk struct {
	Start int
	End   int
}

// Partition splits m window starts into at most workers contiguous chunks
// of size ceil(m/workers). Empty trailing chunks are dropped.
func Partition(m, workers int) []Chunk {
	if m <= 0 || workers <= 0 {
		return nil
	}
	size := (m + workers - 1) / workers
	chunks := make([]Chunk, 0, workers)
	for start := 0; start < m; start += size {
		chunks = append(chunks, Chunk{Start: start, End: min(start+size, m)})
	}
	return chunks
}

// Reducer computes windowed statistics in parallel.
type Reducer struct {
	Metrics *obs.Metrics
}

// ReduceRange applies fn to every full window of input, splitting the
// window starts across workers. Each worker writes a disjoint slice of the
// result, so the output does not depend on scheduling.
func (r Reducer) ReduceRange(ctx context.Context, input []float64, window, workers int, fn stats.Func, norm int) ([]float64, error) {
	m := len(input) - window + 1
	if m <= 0 {
		return []float64{}, nil
	}

	out := make([]float64, m)
	chunks := Partition(m, workers)
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range chunks {
		g.Go(func() error {
			for i := c.Start; i < c.End; i++ {
				if i&0xff == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				out[i] = fn(input[i:i+window], norm)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.Metrics.AddWindowChunks(len(chunks))
	return out, nil
}

// ReducePerSeries runs one worker per named series. A series shorter than
// window yields an empty slice.
func (r Reducer) ReducePerSeries(ctx context.Context, series map[string][]float64, window int, fn stats.Func, norm int) (map[string][]float64, error) {
	type result struct {
		name   string
		values []float64
	}

	results := make([]result, len(series))
	g, gctx := errgroup.WithContext(ctx)
	idx := 0
	for name, values := range series {
		slot := &results[idx]
		slot.name = name
		idx++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slot.values = stats.Rolling(values, window, norm, fn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Metrics.AddWindowChunks(len(results))
	out := make(map[string][]float64, len(results))
	for _, res := range results {
		out[res.name] = res.values
	}
	return out, nil
}
