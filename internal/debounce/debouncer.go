package debounce

import (
	"sync"
	"time"

	"github.com/dshills/retrace/internal/clock"
)

// Option configures a Debouncer or Coalescer.
type Option func(*settings)

type settings struct {
	clock clock.Clock
}

// WithClock sets the clock used to schedule the quiet window.
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

func applyOptions(opts []Option) settings {
	s := settings{clock: clock.Real()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Debouncer groups rapid successive calls into a single callback after a
// quiet period.
//
// Thread-safety: All methods are safe for concurrent use. The callback is
// never invoked while the debouncer's lock is held.
type Debouncer struct {
	mu       sync.Mutex
	clock    clock.Clock
	delay    time.Duration
	timer    clock.Timer
	pending  bool
	seq      uint64 // sequence number to detect stale callbacks
	callback func()
}

// NewDebouncer creates a debouncer that invokes callback once no new calls
// have been made for at least delay.
func NewDebouncer(delay time.Duration, callback func(), opts ...Option) *Debouncer {
	s := applyOptions(opts)
	return &Debouncer{
		clock:    s.clock,
		delay:    delay,
		callback: callback,
	}
}

// Call schedules the callback to run after the debounce delay.
// Each call restarts the window.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Only execute if this is still the current scheduled callback
		if d.pending && d.seq == currentSeq && d.callback != nil {
			d.pending = false
			d.timer = nil
			d.mu.Unlock()
			d.callback()
			return
		}
		d.mu.Unlock()
	})
}

// CallImmediate runs the callback now if a call is pending, canceling the
// scheduled one.
func (d *Debouncer) CallImmediate() {
	d.mu.Lock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++

	if d.pending && d.callback != nil {
		d.pending = false
		d.mu.Unlock()
		d.callback()
		return
	}
	d.mu.Unlock()
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// IsPending returns true if a call is waiting for its quiet window.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// SetDelay changes the quiet window. A pending call keeps the window it was
// scheduled with.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Delay returns the current quiet window.
func (d *Debouncer) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}
