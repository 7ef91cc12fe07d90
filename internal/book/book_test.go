package book

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim/internal/obs"
	"tradesim/internal/rng"
	"tradesim/internal/schema"
)

func TestIDAllocatorConcurrent(t *testing.T) {
	const workers, perWorker = 16, 250
	alloc := NewIDAllocator()

	ids := make([][]uint64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids[w] = append(ids[w], alloc.Next())
			}
		}(w)
	}
	wg.Wait()

	seen := make(map[uint64]bool, workers*perWorker)
	for _, batch := range ids {
		for i, id := range batch {
			require.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
			if i > 0 {
				assert.Greater(t, id, batch[i-1], "ids must increase within a caller")
			}
		}
	}
	for id := uint64(1); id <= workers*perWorker; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
	assert.Equal(t, uint64(workers*perWorker), alloc.Last())
}

func TestOrderBookSnapshotIsCopy(t *testing.T) {
	b := NewOrderBook()
	b.Place(schema.OrderSideBuy, schema.Order{ID: 1, Side: schema.OrderSideBuy, Price: 100, Qty: 1})
	b.Place(schema.OrderSideSell, schema.Order{ID: 2, Side: schema.OrderSideSell, Price: 101, Qty: 2})
	b.Place(schema.OrderSideUnknown, schema.Order{ID: 3})

	snap := b.Snapshot()
	require.Equal(t, 2, snap.Len())
	snap.Buy[0].Price = 0

	again := b.Snapshot()
	assert.Equal(t, 100.0, again.Buy[0].Price)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []uint64{1, 2}, []uint64{again.All()[0].ID, again.All()[1].ID})
}

func TestTraderRun(t *testing.T) {
	b := NewOrderBook()
	alloc := NewIDAllocator()
	metrics := obs.NewMetrics()
	trader := Trader{
		ID:      7,
		Orders:  50,
		Config:  DefaultTraderConfig(),
		Rand:    rng.New(3),
		IDs:     alloc,
		Book:    b,
		Metrics: metrics,
	}
	require.NoError(t, trader.Run(t.Context()))

	snap := b.Snapshot()
	require.Equal(t, 50, snap.Len())
	for _, o := range snap.Buy {
		assert.Equal(t, schema.OrderSideBuy, o.Side)
	}
	for _, o := range snap.Sell {
		assert.Equal(t, schema.OrderSideSell, o.Side)
	}
	for _, o := range snap.All() {
		assert.Equal(t, 7, o.TraderID)
		assert.True(t, o.Price >= 90 && o.Price <= 110, "price out of range: %v", o.Price)
		assert.InDelta(t, o.Price, float64(int64(o.Price*100+0.5))/100, 1e-9, "price not rounded: %v", o.Price)
		assert.True(t, o.Qty >= 1 && o.Qty <= 100, "qty out of range: %d", o.Qty)
	}

	counts := metrics.Snapshot().OrdersPlaced
	assert.Equal(t, uint64(len(snap.Buy)), counts["buy"])
	assert.Equal(t, uint64(len(snap.Sell)), counts["sell"])
}

func TestTraderStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	b := NewOrderBook()
	trader := Trader{Orders: 10, Config: DefaultTraderConfig(), Rand: rng.New(1), IDs: NewIDAllocator(), Book: b}
	assert.ErrorIs(t, trader.Run(ctx), context.Canceled)
	assert.Zero(t, b.Len())
}

func TestTraderConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultTraderConfig().Validate())
	assert.Error(t, TraderConfig{PriceMin: 10, PriceMax: 5, QtyMin: 1, QtyMax: 1}.Validate())
	assert.Error(t, TraderConfig{PriceMin: 1, PriceMax: 5, QtyMin: 0, QtyMax: 1}.Validate())
}
