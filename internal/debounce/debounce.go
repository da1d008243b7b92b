// Package debounce coalesces bursts of calls so only the last call of a
// burst runs, after a quiet period.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer delays each call by the quiet period; a newer call supersedes
// any call still waiting.
type Debouncer struct {
	quiet time.Duration

	mu         sync.Mutex
	generation uint64
	cancel     chan struct{}
}

func New(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Do waits out the quiet period and then runs fn, unless another Do call
// arrives first. It reports whether fn ran. A cancelled ctx returns its error.
func (d *Debouncer) Do(ctx context.Context, fn func(context.Context) error) (bool, error) {
	d.mu.Lock()
	if d.cancel != nil {
		close(d.cancel)
	}
	d.generation++
	gen := d.generation
	superseded := make(chan struct{})
	d.cancel = superseded
	d.mu.Unlock()

	timer := time.NewTimer(d.quiet)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-superseded:
		return false, nil
	case <-timer.C:
	}

	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return false, nil
	}
	d.cancel = nil
	d.mu.Unlock()

	return true, fn(ctx)
}

// Cancel releases any waiting call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		close(d.cancel)
		d.cancel = nil
	}
	d.generation++
}
