package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/yanun0323/logs"

	"tradesim/internal/clock"
	"tradesim/internal/obs"
	"tradesim/internal/rng"
)

// Config defines the retry backoff of strategy workers.
type Config struct {
	BackoffMin time.Duration `json:"backoffMin" yaml:"backoffMin" envconfig:"BACKOFF_MIN" validate:"gte=0"`
	BackoffMax time.Duration `json:"backoffMax" yaml:"backoffMax" envconfig:"BACKOFF_MAX" validate:"gtefield=BackoffMin"`
}

// DefaultConfig retries every 100..500ms.
func DefaultConfig() Config {
	return Config{
		BackoffMin: 100 * time.Millisecond,
		BackoffMax: 500 * time.Millisecond,
	}
}

// Validate ensures the config is within supported ranges.
func (c Config) Validate() error {
	if c.BackoffMin < 0 || c.BackoffMax < c.BackoffMin {
		return fmt.Errorf("backoff range must satisfy 0 <= min <= max")
	}
	return nil
}

// Strategy requests a fixed amount from the ledger until granted or cancelled.
type Strategy struct {
	Name    string
	Amount  float64
	Config  Config
	Ledger  *Ledger
	Rand    *rng.Source
	Clock   clock.Clock
	Metrics *obs.Metrics
}

// Run retries admission with a random backoff. It reports whether the
// request was granted.
func (s Strategy) Run(ctx context.Context) bool {
	for ctx.Err() == nil {
		s.Metrics.IncRiskAttempt(s.Name)
		if s.Ledger.TryAllocate(s.Name, s.Amount) {
			s.Metrics.IncRiskGrant()
			logs.Infof("strategy %s allocated %.2f, remaining %.2f", s.Name, s.Amount, s.Ledger.Remaining())
			return true
		}
		s.Metrics.IncRiskBackoff()
		if !clock.Sleep(ctx, s.Clock, s.Rand.Duration(s.Config.BackoffMin, s.Config.BackoffMax)) {
			break
		}
	}
	logs.Infof("strategy %s stopped without allocation", s.Name)
	return false
}
