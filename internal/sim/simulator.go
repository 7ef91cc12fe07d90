package sim

import (
	"context"
	"time"

	"github.com/yanun0323/logs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tradesim/internal/clock"
	"tradesim/internal/errors"
	"tradesim/internal/obs"
	"tradesim/internal/rng"
	"tradesim/internal/scan"
	"tradesim/internal/sink"
	"tradesim/internal/window"
)

// Simulator runs simulations against injected collaborators. Each run
// builds its own shared state, so runs are independent.
type Simulator struct {
	config  Config
	rand    *rng.Source
	clock   clock.Clock
	sink    sink.Sink
	metrics *obs.Metrics
	tracer  trace.Tracer
	sampler scan.Sampler
	reducer window.Reducer
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithSink sets the receiver of price reports.
func WithSink(s sink.Sink) Option {
	return func(sim *Simulator) { sim.sink = s }
}

// WithClock sets the time source for waits and report timestamps.
func WithClock(c clock.Clock) Option {
	return func(sim *Simulator) { sim.clock = c }
}

// WithMetrics attaches counters updated by every run.
func WithMetrics(m *obs.Metrics) Option {
	return func(sim *Simulator) { sim.metrics = m }
}

// WithTracer sets the tracer that opens one span per run.
func WithTracer(t trace.Tracer) Option {
	return func(sim *Simulator) { sim.tracer = t }
}

// WithSampler replaces the random target-scan sampler.
func WithSampler(s scan.Sampler) Option {
	return func(sim *Simulator) { sim.sampler = s }
}

// WithRand overrides the random source derived from Config.Seed.
func WithRand(r *rng.Source) Option {
	return func(sim *Simulator) { sim.rand = r }
}

// New validates cfg and builds a simulator.
func New(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}

	s := &Simulator{
		config: cfg,
		clock:  clock.Real{},
		sink:   sink.Logs{},
		tracer: obs.Tracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = rng.New(cfg.Seed)
	}
	if s.sink == nil {
		s.sink = sink.Discard
	}
	s.reducer = window.Reducer{Metrics: s.metrics}
	return s, nil
}

// Config returns the tunables the simulator was built with.
func (s *Simulator) Config() Config {
	return s.config
}

// Rand returns the simulator's root random source.
func (s *Simulator) Rand() *rng.Source {
	return s.rand
}

// Metrics returns the attached metrics, possibly nil.
func (s *Simulator) Metrics() *obs.Metrics {
	return s.metrics
}

type run struct {
	id      string
	op      string
	started time.Time
	span    trace.Span
	metrics *obs.Metrics
}

func (s *Simulator) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, *run) {
	ctx, span, id := obs.StartRun(ctx, s.tracer, op, attrs...)
	logs.Infof("[%s] %s started", id, op)
	return ctx, &run{id: id, op: op, started: time.Now(), span: span, metrics: s.metrics}
}

func (r *run) end(err error) {
	elapsed := time.Since(r.started)
	r.metrics.ObserveRun(r.op, elapsed)
	obs.EndRun(r.span, err)
	if err != nil {
		logs.Errorf("[%s] %s ended after %s, err: %+v", r.id, r.op, elapsed, err)
		return
	}
	logs.Infof("[%s] %s finished in %s", r.id, r.op, elapsed)
}
