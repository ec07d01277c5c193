package debounce

import (
	"sync"
	"time"
)

// Coalescer debounces a stream of values. Of each burst of pushes, only the
// latest value is emitted, once, after the quiet window.
type Coalescer[T any] struct {
	mu     sync.Mutex
	latest T
	has    bool
	emit   func(T)
	deb    *Debouncer
}

// NewCoalescer creates a coalescer that calls emit with the settled value.
func NewCoalescer[T any](delay time.Duration, emit func(T), opts ...Option) *Coalescer[T] {
	c := &Coalescer[T]{emit: emit}
	c.deb = NewDebouncer(delay, c.settle, opts...)
	return c
}

// Push records v as the latest value and restarts the quiet window.
func (c *Coalescer[T]) Push(v T) {
	c.mu.Lock()
	c.latest = v
	c.has = true
	c.mu.Unlock()

	c.deb.Call()
}

// Flush emits the pending value immediately, if any.
func (c *Coalescer[T]) Flush() {
	c.deb.CallImmediate()
}

// Cancel discards the pending value without emitting it.
func (c *Coalescer[T]) Cancel() {
	c.deb.Cancel()

	c.mu.Lock()
	var zero T
	c.latest = zero
	c.has = false
	c.mu.Unlock()
}

// Pending reports whether a value is waiting to settle.
func (c *Coalescer[T]) Pending() bool {
	return c.deb.IsPending()
}

// SetDelay changes the quiet window for subsequent pushes.
func (c *Coalescer[T]) SetDelay(d time.Duration) {
	c.deb.SetDelay(d)
}

// Delay returns the quiet window.
func (c *Coalescer[T]) Delay() time.Duration {
	return c.deb.Delay()
}

func (c *Coalescer[T]) settle() {
	c.mu.Lock()
	if !c.has {
		c.mu.Unlock()
		return
	}
	v := c.latest
	var zero T
	c.latest = zero
	c.has = false
	c.mu.Unlock()

	if c.emit != nil {
		c.emit(v)
	}
}
