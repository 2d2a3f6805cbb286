package preview

import (
	"sync"
	"time"
)

// Debouncer delays a callback until its trigger has been quiet for a
// full delay window. Every trigger cancels the previous pending timer,
// so a storm of triggers holds at most one timer and runs the callback
// once, with the argument of the final trigger. Intermediate arguments
// are discarded, never queued.
type Debouncer[T any] struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(T)
	timer *time.Timer
}

// NewDebouncer wraps fn. The callback runs on a timer goroutine.
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger schedules fn(arg) after the quiescence delay, cancelling any
// previously scheduled invocation.
func (d *Debouncer[T]) Trigger(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fn(arg)
	})
}

// Stop cancels any pending invocation. A later Trigger re-arms the
// debouncer.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
