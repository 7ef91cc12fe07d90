package book

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tradesim/internal/obs"
	"tradesim/internal/rng"
	"tradesim/internal/schema"
)

const minPrice = 0.01

// TraderConfig bounds the random orders a trader places.
type TraderConfig struct {
	PriceMin float64 `json:"priceMin" yaml:"priceMin" envconfig:"PRICE_MIN" validate:"gt=0"`
	PriceMax float64 `json:"priceMax" yaml:"priceMax" envconfig:"PRICE_MAX" validate:"gtefield=PriceMin"`
	QtyMin   int64   `json:"qtyMin" yaml:"qtyMin" envconfig:"QTY_MIN" validate:"gt=0"`
	QtyMax   int64   `json:"qtyMax" yaml:"qtyMax" envconfig:"QTY_MAX" validate:"gtefield=QtyMin"`
}

// DefaultTraderConfig returns prices in 90..110 and quantities in 1..100.
func DefaultTraderConfig() TraderConfig {
	return TraderConfig{
		PriceMin: 90,
		PriceMax: 110,
		QtyMin:   1,
		QtyMax:   100,
	}
}

// Validate ensures the ranges are usable.
func (c TraderConfig) Validate() error {
	if c.PriceMin <= 0 || c.PriceMax < c.PriceMin {
		return fmt.Errorf("price range must satisfy 0 < min <= max, got [%v, %v]", c.PriceMin, c.PriceMax)
	}
	if c.QtyMin <= 0 || c.QtyMax < c.QtyMin {
		return fmt.Errorf("qty range must satisfy 0 < min <= max, got [%d, %d]", c.QtyMin, c.QtyMax)
	}
	return nil
}

// Trader places a fixed number of random orders into a shared book.
type Trader struct {
	ID      int
	Orders  int
	Config  TraderConfig
	Rand    *rng.Source
	IDs     *IDAllocator
	Book    *OrderBook
	Metrics *obs.Metrics
}

// Run places the orders, stopping early if ctx is cancelled.
func (t Trader) Run(ctx context.Context) error {
	for i := 0; i < t.Orders; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		order := t.newOrder()
		t.Book.Place(order.Side, order)
		t.Metrics.IncOrderPlaced(order.Side.String())
	}
	return nil
}

func (t Trader) newOrder() schema.Order {
	side := schema.OrderSideSell
	if t.Rand.Bool() {
		side = schema.OrderSideBuy
	}
	price := decimal.NewFromFloat(t.Rand.Uniform(t.Config.PriceMin, t.Config.PriceMax)).Round(2).InexactFloat64()
	if price < minPrice {
		price = minPrice
	}
	return schema.Order{
		ID:       t.IDs.Next(),
		Side:     side,
		Price:    price,
		Qty:      t.Rand.IntRange(t.Config.QtyMin, t.Config.QtyMax),
		TraderID: t.ID,
	}
}
