package sim

import (
	"context"
	"sync"
	"time"

	"github.com/yanun0323/logs"
	"go.opentelemetry.io/otel/attribute"

	"tradesim/internal/risk"
	"tradesim/internal/schema"
)

// RunRiskAllocation lets every strategy compete for capacity until all are
// granted, duration elapses or ctx is done. Every requested strategy
// appears in the result; starved ones map to 0.
func (s *Simulator) RunRiskAllocation(ctx context.Context, capacity float64, requests []schema.StrategyRequest, duration time.Duration) (_ map[string]float64, err error) {
	if err := positiveFinite("capacity", capacity); err != nil {
		return nil, err
	}
	names, err := validateRequests(requests)
	if err != nil {
		return nil, err
	}
	if err := positiveDuration("duration", duration); err != nil {
		return nil, err
	}

	ctx, r := s.begin(ctx, "risk",
		attribute.Float64("capacity", capacity),
		attribute.Int("strategies", len(requests)),
		attribute.String("duration", duration.String()),
	)
	defer func() { r.end(err) }()

	ledger := risk.NewLedger(capacity, names)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := sync.WaitGroup{}
	for _, req := range requests {
		st := risk.Strategy{
			Name:    req.Name,
			Amount:  req.Amount,
			Config:  s.config.Risk,
			Ledger:  ledger,
			Rand:    s.rand.Fork(),
			Clock:   s.clock,
			Metrics: s.metrics,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Run(runCtx)
		}()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-s.clock.After(duration):
	case <-ctx.Done():
	}
	cancel()
	<-finished

	logs.Infof("[%s] risk allocated %.2f of %.2f, remaining %.2f", r.id, ledger.Total(), capacity, ledger.Remaining())
	return ledger.Snapshot(), nil
}
