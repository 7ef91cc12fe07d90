package sink

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yanun0323/logs"
)

// Report is a periodic observation emitted by a reporting worker.
type Report struct {
	RunID  string
	Kind   string
	At     time.Time
	Prices map[string]float64
}

// Sink receives reports. Emit must not block the caller for long.
type Sink interface {
	Emit(Report)
}

// Func adapts a function to Sink.
type Func func(Report)

func (f Func) Emit(r Report) { f(r) }

type discard struct{}

func (discard) Emit(Report) {}

// Discard drops every report.
var Discard Sink = discard{}

// Logs writes reports through the process logger.
type Logs struct{}

func (Logs) Emit(r Report) {
	logs.Infof("[%s] %s report at %s: %s", r.RunID, r.Kind, r.At.Format(time.RFC3339), FormatPrices(r.Prices))
}

// FormatPrices renders prices sorted by symbol, e.g. "AAPL=100.12 GOOG=99.80".
func FormatPrices(prices map[string]float64) string {
	symbols := sortedSymbols(prices)
	parts := make([]string, 0, len(symbols))
	for _, s := range symbols {
		parts = append(parts, fmt.Sprintf("%s=%.2f", s, prices[s]))
	}
	return strings.Join(parts, " ")
}

func sortedSymbols(prices map[string]float64) []string {
	symbols := make([]string, 0, len(prices))
	for s := range prices {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
