package sim

import (
	"tradesim/internal/book"
	"tradesim/internal/errors"
	"tradesim/internal/feed"
	"tradesim/internal/risk"
	"tradesim/internal/scan"
)

// Config holds the tunables of all runs.
type Config struct {
	Seed   int64             `json:"seed" yaml:"seed" envconfig:"SEED"`
	Trader book.TraderConfig `json:"trader" yaml:"trader" envconfig:"TRADER"`
	Feed   feed.Config       `json:"feed" yaml:"feed" envconfig:"FEED"`
	Risk   risk.Config       `json:"risk" yaml:"risk" envconfig:"RISK"`
	Scan   scan.Config       `json:"scan" yaml:"scan" envconfig:"SCAN"`
}

// DefaultConfig returns the stock tunables with a time-based seed.
func DefaultConfig() Config {
	return Config{
		Trader: book.DefaultTraderConfig(),
		Feed:   feed.DefaultConfig(),
		Risk:   risk.DefaultConfig(),
		Scan:   scan.DefaultConfig(),
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Trader.Validate(); err != nil {
		return errors.Wrap(err, "trader")
	}
	if err := c.Feed.Validate(); err != nil {
		return errors.Wrap(err, "feed")
	}
	if err := c.Risk.Validate(); err != nil {
		return errors.Wrap(err, "risk")
	}
	if err := c.Scan.Validate(); err != nil {
		return errors.Wrap(err, "scan")
	}
	return nil
}
