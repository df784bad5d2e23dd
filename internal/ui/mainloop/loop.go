// Package mainloop runs the single goroutine that owns all window state.
package mainloop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/tabshell/internal/logging"
)

// ErrStopped is returned for work submitted after the loop finished.
var ErrStopped = errors.New("main loop stopped")

// Loop executes posted tasks one at a time, in FIFO order, on the goroutine
// that called Run. Post never blocks, so host listeners can post while the
// loop itself waits on the host.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// New creates a loop. Tasks posted before Run are kept.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn and reports whether it was accepted.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Call runs fn on the loop and waits for it to return.
// It must not be called from the loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes tasks until ctx is done. Pending tasks are dropped on exit.
// A panicking task is logged and the loop keeps running.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()

	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			l.runTask(ctx, fn)
			if ctx.Err() != nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) runTask(ctx context.Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error().
				Str("component", "mainloop").
				Str("panic", fmt.Sprint(r)).
				Msg("main loop task panicked")
		}
	}()
	fn()
}

func (l *Loop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.queue = nil
	l.mu.Unlock()
}
