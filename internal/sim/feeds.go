package sim

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"tradesim/internal/clock"
	"tradesim/internal/feed"
)

// RunFeedSimulation walks the price of every symbol for duration and
// returns the final price table. Parent cancellation ends the run early
// with the prices reached so far.
func (s *Simulator) RunFeedSimulation(ctx context.Context, symbols []string, duration time.Duration) (_ map[string]float64, err error) {
	if err := uniqueNames("symbol", symbols); err != nil {
		return nil, err
	}
	if err := positiveDuration("duration", duration); err != nil {
		return nil, err
	}

	ctx, r := s.begin(ctx, "feeds",
		attribute.StringSlice("symbols", symbols),
		attribute.String("duration", duration.String()),
	)
	defer func() { r.end(err) }()

	registry := feed.NewRegistry(symbols, s.config.Feed.InitialPrice)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := sync.WaitGroup{}
	for _, symbol := range symbols {
		f := feed.Feed{
			Symbol:   symbol,
			Config:   s.config.Feed,
			Registry: registry,
			Rand:     s.rand.Fork(),
			Clock:    s.clock,
			Metrics:  s.metrics,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Run(runCtx)
		}()
	}

	reporter := feed.Reporter{
		RunID:    r.id,
		Interval: s.config.Feed.ReportInterval,
		Registry: registry,
		Sink:     s.sink,
		Clock:    s.clock,
		Metrics:  s.metrics,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		reporter.Run(runCtx)
	}()

	clock.Sleep(ctx, s.clock, duration)
	cancel()
	wg.Wait()

	return registry.Snapshot(), nil
}
