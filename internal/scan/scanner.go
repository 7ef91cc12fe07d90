package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yanun0323/logs"
	"golang.org/x/sync/errgroup"

	"tradesim/internal/clock"
	"tradesim/internal/obs"
	"tradesim/internal/rng"
)

// Config controls sampling delays and the default sampler's spread.
type Config struct {
	DelayMin  time.Duration `json:"delayMin" yaml:"delayMin" envconfig:"DELAY_MIN" validate:"gte=0"`
	DelayMax  time.Duration `json:"delayMax" yaml:"delayMax" envconfig:"DELAY_MAX" validate:"gtefield=DelayMin"`
	Variation float64       `json:"variation" yaml:"variation" envconfig:"VARIATION" validate:"gte=0,lt=1"`
	Floor     float64       `json:"floor" yaml:"floor" envconfig:"FLOOR" validate:"gt=0"`
}

// DefaultConfig waits 50..200ms before each sample and samples within +/-10%.
func DefaultConfig() Config {
	return Config{
		DelayMin:  50 * time.Millisecond,
		DelayMax:  200 * time.Millisecond,
		Variation: 0.10,
		Floor:     0.01,
	}
}

// Validate ensures the config is within supported ranges.
func (c Config) Validate() error {
	if c.DelayMin < 0 || c.DelayMax < c.DelayMin {
		return fmt.Errorf("delay range must satisfy 0 <= min <= max")
	}
	if c.Variation < 0 || c.Variation >= 1 {
		return fmt.Errorf("variation must be in [0, 1)")
	}
	if c.Floor <= 0 {
		return fmt.Errorf("floor must be > 0")
	}
	return nil
}

// HitSet collects symbols that crossed the target. Insertion order is not
// meaningful.
type HitSet struct {
	mu      sync.Mutex
	symbols []string
	seen    map[string]struct{}
}

// NewHitSet creates an empty set.
func NewHitSet() *HitSet {
	return &HitSet{seen: make(map[string]struct{})}
}

// Add inserts a symbol and reports whether it was new.
func (h *HitSet) Add(symbol string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.seen[symbol]; ok {
		return false
	}
	h.seen[symbol] = struct{}{}
	h.symbols = append(h.symbols, symbol)
	return true
}

// Symbols copies the set contents.
func (h *HitSet) Symbols() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.symbols...)
}

// Crossed reports whether target lies in the closed interval spanned by
// prev and cur.
func Crossed(prev, cur, target float64) bool {
	return min(prev, cur) <= target && target <= max(prev, cur)
}

// Scanner fans out one worker per symbol and joins them.
type Scanner struct {
	Config  Config
	Sampler Sampler
	Rand    *rng.Source
	Clock   clock.Clock
	Metrics *obs.Metrics
}

// Scan samples every symbol twice and returns the symbols whose samples
// bracket target. Random streams are forked per symbol in input order, so a
// seeded scan is reproducible.
func (s Scanner) Scan(ctx context.Context, symbols []string, target float64) ([]string, error) {
	hits := NewHitSet()
	g, gctx := errgroup.WithContext(ctx)
	for _, symbol := range symbols {
		sampler := s.Sampler
		if f, ok := sampler.(Forker); ok {
			sampler = f.Fork()
		}
		w := watcher{
			symbol:  symbol,
			target:  target,
			config:  s.Config,
			sampler: sampler,
			rand:    s.Rand.Fork(),
			clock:   s.Clock,
			metrics: s.Metrics,
			hits:    hits,
		}
		g.Go(func() error {
			return w.run(gctx)
		})
	}
	err := g.Wait()
	return hits.Symbols(), err
}

type watcher struct {
	symbol  string
	target  float64
	config  Config
	sampler Sampler
	rand    *rng.Source
	clock   clock.Clock
	metrics *obs.Metrics
	hits    *HitSet
}

func (w watcher) run(ctx context.Context) error {
	prev, err := w.sample(ctx)
	if err != nil {
		return err
	}
	cur, err := w.sample(ctx)
	if err != nil {
		return err
	}
	if !Crossed(prev, cur, w.target) {
		logs.Infof("%s: prev=%.2f cur=%.2f target=%.2f not reached", w.symbol, prev, cur, w.target)
		return nil
	}
	if w.hits.Add(w.symbol) {
		w.metrics.IncScanHit()
	}
	logs.Infof("%s: prev=%.2f cur=%.2f target=%.2f reached", w.symbol, prev, cur, w.target)
	return nil
}

func (w watcher) sample(ctx context.Context) (float64, error) {
	if !clock.Sleep(ctx, w.clock, w.rand.Duration(w.config.DelayMin, w.config.DelayMax)) {
		return 0, ctx.Err()
	}
	return w.sampler.Sample(w.symbol, w.target), nil
}
