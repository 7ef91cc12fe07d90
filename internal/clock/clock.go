package clock

import (
	"context"
	"time"
)

type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

type Real struct{}

func (Real) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (Real) Now() time.Time                         { return time.Now() }

// Sleep waits for d or until ctx is done. It reports false when the wait
// was interrupted by cancellation.
func Sleep(ctx context.Context, c Clock, d time.Duration) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-c.After(d):
		return true
	}
}
