package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/yanun0323/logs"

	"tradesim/internal/clock"
	"tradesim/internal/obs"
	"tradesim/internal/rng"
	"tradesim/internal/sink"
)

// Config controls feed perturbation and reporting cadence.
type Config struct {
	InitialPrice   float64       `json:"initialPrice" yaml:"initialPrice" envconfig:"INITIAL_PRICE" validate:"gt=0"`
	Perturbation   float64       `json:"perturbation" yaml:"perturbation" envconfig:"PERTURBATION" validate:"gte=0,lt=1"`
	Floor          float64       `json:"floor" yaml:"floor" envconfig:"FLOOR" validate:"gt=0"`
	WaitMin        time.Duration `json:"waitMin" yaml:"waitMin" envconfig:"WAIT_MIN" validate:"gte=0"`
	WaitMax        time.Duration `json:"waitMax" yaml:"waitMax" envconfig:"WAIT_MAX" validate:"gtefield=WaitMin"`
	ReportInterval time.Duration `json:"reportInterval" yaml:"reportInterval" envconfig:"REPORT_INTERVAL" validate:"gt=0"`
}

// DefaultConfig mirrors a +/-1% walk every 1..3s reported every 5s.
func DefaultConfig() Config {
	return Config{
		InitialPrice:   100.0,
		Perturbation:   0.01,
		Floor:          0.01,
		WaitMin:        time.Second,
		WaitMax:        3 * time.Second,
		ReportInterval: 5 * time.Second,
	}
}

// Validate ensures the config is within supported ranges.
func (c Config) Validate() error {
	if c.InitialPrice <= 0 {
		return fmt.Errorf("initialPrice must be > 0")
	}
	if c.Perturbation < 0 || c.Perturbation >= 1 {
		return fmt.Errorf("perturbation must be in [0, 1)")
	}
	if c.Floor <= 0 {
		return fmt.Errorf("floor must be > 0")
	}
	if c.WaitMin < 0 || c.WaitMax < c.WaitMin {
		return fmt.Errorf("wait range must satisfy 0 <= min <= max")
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("reportInterval must be > 0")
	}
	return nil
}

// Feed walks the price of one symbol until cancelled.
type Feed struct {
	Symbol   string
	Config   Config
	Registry *Registry
	Rand     *rng.Source
	Clock    clock.Clock
	Metrics  *obs.Metrics
}

// Run loops perturb -> wait until ctx is done.
func (f Feed) Run(ctx context.Context) {
	for ctx.Err() == nil {
		factor := 1 + f.Rand.Uniform(-f.Config.Perturbation, f.Config.Perturbation)
		if _, ok := f.Registry.Perturb(f.Symbol, factor, f.Config.Floor); ok {
			f.Metrics.IncPriceTick(f.Symbol)
		}
		wait := f.Rand.Duration(f.Config.WaitMin, f.Config.WaitMax)
		if !clock.Sleep(ctx, f.Clock, wait) {
			break
		}
	}
	logs.Infof("feed %s stopped", f.Symbol)
}

// Reporter periodically snapshots the registry into a sink.
type Reporter struct {
	RunID    string
	Interval time.Duration
	Registry *Registry
	Sink     sink.Sink
	Clock    clock.Clock
	Metrics  *obs.Metrics
}

// Run emits one report per interval until ctx is done.
func (r Reporter) Run(ctx context.Context) {
	for ctx.Err() == nil {
		r.Sink.Emit(sink.Report{
			RunID:  r.RunID,
			Kind:   "prices",
			At:     r.Clock.Now(),
			Prices: r.Registry.Snapshot(),
		})
		r.Metrics.IncPriceReport()
		if !clock.Sleep(ctx, r.Clock, r.Interval) {
			break
		}
	}
	logs.Infof("[%s] reporter stopped", r.RunID)
}
