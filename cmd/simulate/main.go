package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/prometheus/common/expfmt"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"tradesim/internal/feed"
	"tradesim/internal/obs"
	"tradesim/internal/ops"
	"tradesim/internal/schema"
	"tradesim/internal/sim"
	"tradesim/internal/stats"
)

var scenarios = []string{"orders", "feeds", "risk", "scan", "volatility", "averages"}

func main() {
	configPath := flag.String("config", "", "Path to JSON or YAML config")
	envFile := flag.String("env-file", ".env", "Dotenv file loaded before SIM_* overrides")
	scenario := flag.String("scenario", "all", "Scenario: all|"+strings.Join(scenarios, "|"))
	pyroscopeAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disable)")
	statName := flag.String("stat", "dispersion", "Windowed stat for the volatility scenario: mean|dispersion")
	metricsOut := flag.String("metrics-out", "", "Write metrics in Prometheus text format to this file on exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		select {
		case <-sys.Shutdown():
			stop()
		case <-ctx.Done():
		}
	}()

	if *pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "tradesim",
			ServerAddress:   *pyroscopeAddr,
			Tags: map[string]string{
				"scenario": *scenario,
			},
			Logger: emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	loaded, err := ops.Load(*configPath, *envFile)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	selected, err := selectScenarios(*scenario)
	if err != nil {
		log.Fatalf("%v", err)
	}
	kind, err := stats.ParseKind(*statName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	metrics := obs.NewMetrics()
	reportSink, closeSink, err := ops.BuildSink(ctx, loaded.Sink, metrics)
	if err != nil {
		log.Fatalf("sink build failed: %v", err)
	}
	defer closeSink()

	simulator, err := sim.New(loaded.Sim, sim.WithSink(reportSink), sim.WithMetrics(metrics))
	if err != nil {
		log.Fatalf("simulator build failed: %v", err)
	}

	for _, name := range selected {
		if ctx.Err() != nil {
			break
		}
		if err := runScenario(ctx, simulator, loaded.Scenario, kind, name); err != nil {
			logs.Errorf("scenario %s failed, err: %+v", name, err)
		}
	}

	snapshot := metrics.Snapshot()
	logs.Infof("metrics: orders=%v ticks=%d reports=%d risk_attempts=%d backoffs=%d grants=%d scan_hits=%d window_chunks=%d sink_drops=%d runs=%+v",
		snapshot.OrdersPlaced, snapshot.PriceTicks, snapshot.PriceReports, snapshot.RiskAttempts, snapshot.RiskBackoffs,
		snapshot.RiskGrants, snapshot.ScanHits, snapshot.WindowChunks, snapshot.SinkDrops, snapshot.Runs)

	if *metricsOut != "" {
		if err := writeMetrics(*metricsOut, metrics); err != nil {
			logs.Errorf("write metrics failed, err: %+v", err)
		}
	}
}

func writeMetrics(path string, metrics *obs.Metrics) error {
	families, err := metrics.Registry().Gather()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return err
		}
	}
	return nil
}

func selectScenarios(name string) ([]string, error) {
	if name == "all" {
		return scenarios, nil
	}
	for _, s := range scenarios {
		if s == name {
			return []string{name}, nil
		}
	}
	return nil, fmt.Errorf("unknown scenario %q", name)
}

func runScenario(ctx context.Context, s *sim.Simulator, sc ops.ScenarioConfig, kind stats.StatKind, name string) error {
	switch name {
	case "orders":
		return runOrders(ctx, s, sc)
	case "feeds":
		return runFeeds(ctx, s, sc)
	case "risk":
		return runRisk(ctx, s, sc)
	case "scan":
		return runScan(ctx, s, sc)
	case "volatility":
		return runVolatility(ctx, s, sc, kind)
	case "averages":
		return runAverages(ctx, s, sc)
	default:
		return fmt.Errorf("unknown scenario %q", name)
	}
}

func runOrders(ctx context.Context, s *sim.Simulator, sc ops.ScenarioConfig) error {
	snap, err := s.RunOrderSimulation(ctx, sc.Traders, sc.OrdersPerTrader)
	if err != nil {
		return err
	}
	logs.Infof("orders: total=%d buy=%d sell=%d", snap.Len(), len(snap.Buy), len(snap.Sell))
	return nil
}

func runFeeds(ctx context.Context, s *sim.Simulator, sc ops.ScenarioConfig) error {
	prices, err := s.RunFeedSimulation(ctx, sc.Symbols, sc.FeedDuration)
	if err != nil {
		return err
	}
	for _, q := range feed.Quotes(prices) {
		logs.Infof("feeds: %s=%.2f", q.Symbol, q.Price)
	}
	return nil
}

func runRisk(ctx context.Context, s *sim.Simulator, sc ops.ScenarioConfig) error {
	cases := []struct {
		capacity float64
		requests []schema.StrategyRequest
	}{
		{100, []schema.StrategyRequest{{Name: "Strategy_A", Amount: 20}, {Name: "Strategy_B", Amount: 30}, {Name: "Strategy_C", Amount: 40}}},
		{50, []schema.StrategyRequest{{Name: "Strategy_X", Amount: 30}, {Name: "Strategy_Y", Amount: 25}, {Name: "Strategy_Z", Amount: 10}}},
		{10, []schema.StrategyRequest{{Name: "Unica", Amount: 7.5}}},
	}
	for _, c := range cases {
		allocated, err := s.RunRiskAllocation(ctx, c.capacity, c.requests, sc.RiskDuration)
		if err != nil {
			return err
		}
		var total float64
		names := make([]string, 0, len(allocated))
		for name, v := range allocated {
			total += v
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			logs.Infof("risk: capacity=%.2f %s=%.2f", c.capacity, name, allocated[name])
		}
		logs.Infof("risk: capacity=%.2f allocated=%.2f within_limit=%t", c.capacity, total, total <= c.capacity)
	}
	return nil
}

func runScan(ctx context.Context, s *sim.Simulator, sc ops.ScenarioConfig) error {
	hits, err := s.RunTargetScan(ctx, sc.ScanSymbols, sc.Target)
	if err != nil {
		return err
	}
	logs.Infof("scan: target=%.2f hits=%v", sc.Target, hits)
	return nil
}

func runVolatility(ctx context.Context, s *sim.Simulator, sc ops.ScenarioConfig, kind stats.StatKind) error {
	walk, err := stats.SimulatePrices(s.Rand().Fork(), s.Config().Feed.InitialPrice, sc.Sigma, sc.Days)
	if err != nil {
		return err
	}
	returns, err := stats.LogReturns(walk)
	if err != nil {
		return err
	}

	norm := 0
	if kind == stats.StatDispersion && sc.Window > 1 {
		norm = 1
	}
	parallel, err := s.ComputeWindowedStat(ctx, returns, sc.Window, sc.Workers, kind, norm)
	if err != nil {
		return err
	}
	serial, err := serialReference(returns, sc.Window, kind, norm)
	if err != nil {
		return err
	}

	maxDiff := maxAbsDiff(serial, parallel)
	logs.Infof("volatility: stat=%s returns=%d windows=%d workers=%d max_diff=%.3g match=%t",
		kind, len(returns), len(parallel), sc.Workers, maxDiff, maxDiff <= 1e-9)
	return nil
}

func runAverages(ctx context.Context, s *sim.Simulator, sc ops.ScenarioConfig) error {
	series := map[string][]float64{
		"AAPL": {100, 101, 102, 103, 104, 105, 106},
		"GOOG": {200, 202, 201, 205, 203, 207, 206},
	}
	averages, err := s.ComputeWindowedStatPerSeries(ctx, series, sc.Window, stats.StatMean, 0)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(averages))
	for name := range averages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		serial, err := stats.RollingMean(series[name], sc.Window)
		if err != nil {
			return err
		}
		logs.Infof("averages: %s=%v match=%t", name, averages[name], maxAbsDiff(serial, averages[name]) <= 1e-9)
	}
	return nil
}

func serialReference(values []float64, window int, kind stats.StatKind, norm int) ([]float64, error) {
	if kind == stats.StatMean {
		return stats.RollingMean(values, window)
	}
	return stats.RollingDispersion(values, window, norm)
}

func maxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var d float64
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
