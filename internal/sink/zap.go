package sink

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap writes reports as structured log entries.
type Zap struct {
	logger *zap.Logger
}

// NewZap wraps a logger. A nil logger falls back to zap.NewNop.
func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zap{logger: logger}
}

func (z *Zap) Emit(r Report) {
	symbols := sortedSymbols(r.Prices)
	fields := make([]zap.Field, 0, len(symbols)+3)
	fields = append(fields,
		zap.String("run_id", r.RunID),
		zap.String("kind", r.Kind),
		zap.Time("at", r.At),
	)
	for _, s := range symbols {
		fields = append(fields, zap.Float64(s, r.Prices[s]))
	}
	z.logger.Info("price_report", fields...)
}

// NewZapLogger builds a JSON production logger at the given level.
func NewZapLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
