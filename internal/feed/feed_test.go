package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesim/internal/clock"
	"tradesim/internal/obs"
	"tradesim/internal/rng"
	"tradesim/internal/sink"
)

func TestRegistryPerturb(t *testing.T) {
	r := NewRegistry([]string{"AAPL", "GOOG"}, 100)

	p, ok := r.Perturb("AAPL", 1.01, 0.01)
	require.True(t, ok)
	assert.InDelta(t, 101.0, p, 1e-9)

	p, ok = r.Perturb("GOOG", 0, 0.01)
	require.True(t, ok)
	assert.Equal(t, 0.01, p, "price must be clamped to the floor")

	_, ok = r.Perturb("MSFT", 1.0, 0.01)
	assert.False(t, ok)

	snap := r.Snapshot()
	snap["AAPL"] = -1
	assert.InDelta(t, 101.0, r.Snapshot()["AAPL"], 1e-9)

	quotes := Quotes(r.Snapshot())
	require.Len(t, quotes, 2)
	assert.Equal(t, "AAPL", quotes[0].Symbol)
	assert.Equal(t, "GOOG", quotes[1].Symbol)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.WaitMax = cfg.WaitMin - 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Perturbation = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ReportInterval = 0
	assert.Error(t, cfg.Validate())
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.WaitMin = time.Millisecond
	cfg.WaitMax = 2 * time.Millisecond
	cfg.ReportInterval = 5 * time.Millisecond
	return cfg
}

func TestFeedAndReporterStopPromptly(t *testing.T) {
	cfg := testConfig()
	cfg.WaitMin = 200 * time.Millisecond
	cfg.WaitMax = 300 * time.Millisecond
	cfg.ReportInterval = time.Minute

	reg := NewRegistry([]string{"AAPL"}, cfg.InitialPrice)
	metrics := obs.NewMetrics()

	var mu sync.Mutex
	var reports []sink.Report
	collect := sink.Func(func(r sink.Report) {
		mu.Lock()
		reports = append(reports, r)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(t.Context())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		Feed{Symbol: "AAPL", Config: cfg, Registry: reg, Rand: rng.New(5), Clock: clock.Real{}, Metrics: metrics}.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		Reporter{RunID: "r", Interval: cfg.ReportInterval, Registry: reg, Sink: collect, Clock: clock.Real{}, Metrics: metrics}.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	cancel()
	wg.Wait()
	assert.Less(t, time.Since(start), cfg.WaitMax, "workers must exit within one wait slice")

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.PriceTicks)
	assert.Equal(t, uint64(1), snap.PriceReports)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reports, 1)
	assert.Equal(t, "prices", reports[0].Kind)
	assert.Contains(t, reports[0].Prices, "AAPL")
}

func TestFeedWalksWithinBounds(t *testing.T) {
	cfg := testConfig()
	reg := NewRegistry([]string{"TSLA"}, cfg.InitialPrice)

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Millisecond)
	defer cancel()
	Feed{Symbol: "TSLA", Config: cfg, Registry: reg, Rand: rng.New(9), Clock: clock.Real{}}.Run(ctx)

	p, ok := reg.Snapshot()["TSLA"]
	require.True(t, ok)
	assert.Greater(t, p, 0.0)
	assert.NotEqual(t, cfg.InitialPrice, p)
}
