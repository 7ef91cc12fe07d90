package sink

import (
	"context"
	"errors"
	"sync"

	"tradesim/internal/obs"
)

var (
	ErrQueueFull   = errors.New("report queue full")
	ErrQueueClosed = errors.New("report queue closed")
)

// Queue is a bounded, non-blocking report queue. Emit never blocks; a full
// queue drops the report.
type Queue struct {
	mu      sync.RWMutex
	ch      chan Report
	closed  bool
	metrics *obs.Metrics
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int, metrics *obs.Metrics) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan Report, capacity), metrics: metrics}
}

func (q *Queue) Emit(r Report) {
	if err := q.TryPublish(r); err != nil {
		q.metrics.IncSinkDrop()
	}
}

// TryPublish enqueues a report without blocking.
func (q *Queue) TryPublish(r Report) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- r:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the queue from accepting new reports.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Run forwards reports to next until the context is done or the queue is
// closed and drained.
func (q *Queue) Run(ctx context.Context, next Sink) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-q.ch:
			if !ok {
				return
			}
			next.Emit(r)
		}
	}
}
