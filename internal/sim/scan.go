package sim

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"tradesim/internal/scan"
)

// RunTargetScan samples every symbol twice and returns, sorted, the
// symbols whose samples bracket target.
func (s *Simulator) RunTargetScan(ctx context.Context, symbols []string, target float64) (_ []string, err error) {
	if err := uniqueNames("symbol", symbols); err != nil {
		return nil, err
	}
	if err := positiveFinite("target", target); err != nil {
		return nil, err
	}

	ctx, r := s.begin(ctx, "scan",
		attribute.StringSlice("symbols", symbols),
		attribute.Float64("target", target),
	)
	defer func() { r.end(err) }()

	sampler := s.sampler
	if sampler == nil {
		sampler = scan.UniformSampler{
			Rand:      s.rand.Fork(),
			Variation: s.config.Scan.Variation,
			Floor:     s.config.Scan.Floor,
		}
	}

	scanner := scan.Scanner{
		Config:  s.config.Scan,
		Sampler: sampler,
		Rand:    s.rand.Fork(),
		Clock:   s.clock,
		Metrics: s.metrics,
	}
	hits, err := scanner.Scan(ctx, symbols, target)
	sort.Strings(hits)
	return hits, err
}
