package sim

import (
	"context"
	"sync"

	"github.com/yanun0323/logs"
	"go.opentelemetry.io/otel/attribute"

	"tradesim/internal/book"
)

// RunOrderSimulation lets traders place ordersPerTrader random orders each
// into a fresh book and returns its final contents. Order ids form the
// contiguous set 1..traders*ordersPerTrader when the run completes.
func (s *Simulator) RunOrderSimulation(ctx context.Context, traders, ordersPerTrader int) (_ book.BookSnapshot, err error) {
	if err := positiveCount("traders", traders); err != nil {
		return book.BookSnapshot{}, err
	}
	if err := positiveCount("orders per trader", ordersPerTrader); err != nil {
		return book.BookSnapshot{}, err
	}

	ctx, r := s.begin(ctx, "orders",
		attribute.Int("traders", traders),
		attribute.Int("orders_per_trader", ordersPerTrader),
	)
	defer func() { r.end(err) }()

	ob := book.NewOrderBook()
	ids := book.NewIDAllocator()

	wg := sync.WaitGroup{}
	for i := 1; i <= traders; i++ {
		t := book.Trader{
			ID:      i,
			Orders:  ordersPerTrader,
			Config:  s.config.Trader,
			Rand:    s.rand.Fork(),
			IDs:     ids,
			Book:    ob,
			Metrics: s.metrics,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = t.Run(ctx)
		}()
	}
	wg.Wait()

	snap := ob.Snapshot()
	logs.Infof("[%s] orders placed=%d last_id=%d", r.id, snap.Len(), ids.Last())
	return snap, ctx.Err()
}
