package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "tradesim"

// Metrics collects simulation counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ordersPlaced *prometheus.CounterVec
	priceTicks   *prometheus.CounterVec
	priceReports prometheus.Counter
	riskAttempts *prometheus.CounterVec
	riskBackoffs prometheus.Counter
	riskGrants   prometheus.Counter
	scanHits     prometheus.Counter
	windowChunks prometheus.Counter
	sinkDrops    prometheus.Counter
	runDuration  *prometheus.HistogramVec
}

// RunSnapshot aggregates run durations for one operation.
type RunSnapshot struct {
	Count uint64
	Total time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	OrdersPlaced map[string]uint64
	PriceTicks   uint64
	PriceReports uint64
	RiskAttempts uint64
	RiskBackoffs uint64
	RiskGrants   uint64
	ScanHits     uint64
	WindowChunks uint64
	SinkDrops    uint64
	Runs         map[string]RunSnapshot
}

// NewMetrics allocates a metrics container with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders appended to the order book.",
		}, []string{"side"}),
		priceTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_ticks_total",
			Help:      "Price perturbations applied by feed workers.",
		}, []string{"symbol"}),
		priceReports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_reports_total",
			Help:      "Price table snapshots emitted by the reporter.",
		}),
		riskAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_attempts_total",
			Help:      "Admission attempts against the risk ledger.",
		}, []string{"strategy"}),
		riskBackoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_backoffs_total",
			Help:      "Rejected admission attempts followed by a backoff.",
		}),
		riskGrants: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_grants_total",
			Help:      "Strategies granted their full request.",
		}),
		scanHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_hits_total",
			Help:      "Symbols that crossed the scan target.",
		}),
		windowChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_chunks_total",
			Help:      "Reducer work units dispatched to workers.",
		}),
		sinkDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_drops_total",
			Help:      "Reports dropped by a full sink queue.",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of each controller run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.ordersPlaced,
		m.priceTicks,
		m.priceReports,
		m.riskAttempts,
		m.riskBackoffs,
		m.riskGrants,
		m.scanHits,
		m.windowChunks,
		m.sinkDrops,
		m.runDuration,
	)
	return m
}

// Registry exposes the underlying registry for exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// IncOrderPlaced records an order appended on the given side.
func (m *Metrics) IncOrderPlaced(side string) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(side).Inc()
}

// IncPriceTick records one feed perturbation.
func (m *Metrics) IncPriceTick(symbol string) {
	if m == nil {
		return
	}
	m.priceTicks.WithLabelValues(symbol).Inc()
}

// IncPriceReport records one reporter snapshot.
func (m *Metrics) IncPriceReport() {
	if m == nil {
		return
	}
	m.priceReports.Inc()
}

// IncRiskAttempt records one admission attempt.
func (m *Metrics) IncRiskAttempt(strategy string) {
	if m == nil {
		return
	}
	m.riskAttempts.WithLabelValues(strategy).Inc()
}

// IncRiskBackoff records a rejected attempt.
func (m *Metrics) IncRiskBackoff() {
	if m == nil {
		return
	}
	m.riskBackoffs.Inc()
}

// IncRiskGrant records a granted strategy.
func (m *Metrics) IncRiskGrant() {
	if m == nil {
		return
	}
	m.riskGrants.Inc()
}

// IncScanHit records a symbol added to the hit set.
func (m *Metrics) IncScanHit() {
	if m == nil {
		return
	}
	m.scanHits.Inc()
}

// AddWindowChunks records dispatched reducer work units.
func (m *Metrics) AddWindowChunks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.windowChunks.Add(float64(n))
}

// IncSinkDrop records a report dropped by a full queue.
func (m *Metrics) IncSinkDrop() {
	if m == nil {
		return
	}
	m.sinkDrops.Inc()
}

// ObserveRun records the wall time of a controller run.
func (m *Metrics) ObserveRun(operation string, d time.Duration) {
	if m == nil || d < 0 {
		return
	}
	m.runDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		OrdersPlaced: make(map[string]uint64),
		Runs:         make(map[string]RunSnapshot),
	}
	if m == nil {
		return snap
	}
	families, err := m.registry.Gather()
	if err != nil {
		return snap
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch family.GetName() {
			case namespace + "_orders_placed_total":
				snap.OrdersPlaced[labelValue(metric, "side")] += counterValue(metric)
			case namespace + "_price_ticks_total":
				snap.PriceTicks += counterValue(metric)
			case namespace + "_price_reports_total":
				snap.PriceReports += counterValue(metric)
			case namespace + "_risk_attempts_total":
				snap.RiskAttempts += counterValue(metric)
			case namespace + "_risk_backoffs_total":
				snap.RiskBackoffs += counterValue(metric)
			case namespace + "_risk_grants_total":
				snap.RiskGrants += counterValue(metric)
			case namespace + "_scan_hits_total":
				snap.ScanHits += counterValue(metric)
			case namespace + "_window_chunks_total":
				snap.WindowChunks += counterValue(metric)
			case namespace + "_sink_drops_total":
				snap.SinkDrops += counterValue(metric)
			case namespace + "_run_duration_seconds":
				h := metric.GetHistogram()
				snap.Runs[labelValue(metric, "operation")] = RunSnapshot{
					Count: h.GetSampleCount(),
					Total: time.Duration(h.GetSampleSum() * float64(time.Second)),
				}
			}
		}
	}
	return snap
}

func counterValue(metric *dto.Metric) uint64 {
	return uint64(metric.GetCounter().GetValue())
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}
