package ops

import (
	"context"
	"sync"

	"tradesim/internal/errors"
	"tradesim/internal/obs"
	"tradesim/internal/sink"
)

// BuildSink creates the configured report sink. With a positive queue size
// reports are buffered and forwarded by a background goroutine; the
// returned stop func drains it and releases resources.
func BuildSink(ctx context.Context, cfg SinkConfig, metrics *obs.Metrics) (sink.Sink, func(), error) {
	var (
		target sink.Sink
		stop   = func() {}
	)
	switch cfg.Kind {
	case "", "logs":
		target = sink.Logs{}
	case "discard":
		target = sink.Discard
	case "zap":
		level := cfg.Level
		if level == "" {
			level = "info"
		}
		logger, err := sink.NewZapLogger(level)
		if err != nil {
			return nil, nil, errors.Wrap(err, "build zap logger")
		}
		target = sink.NewZap(logger)
		stop = func() { _ = logger.Sync() }
	default:
		return nil, nil, errors.InvalidArgument("unknown sink kind %q", cfg.Kind)
	}

	if cfg.QueueSize <= 0 {
		return target, stop, nil
	}

	queue := sink.NewQueue(cfg.QueueSize, metrics)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.Run(ctx, target)
	}()
	flush := stop
	return queue, func() {
		queue.Close()
		wg.Wait()
		flush()
	}, nil
}
