package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/retrace/internal/clock"
)

func newFakeClock() *clock.Fake {
	return clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestDebouncer_Basic(t *testing.T) {
	c := newFakeClock()
	var callCount int

	d := NewDebouncer(50*time.Millisecond, func() { callCount++ }, WithClock(c))

	for i := 0; i < 10; i++ {
		d.Call()
		c.Advance(10 * time.Millisecond)
	}
	assert.Equal(t, 0, callCount, "window restarted by every call")

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, 1, callCount)
}

func TestDebouncer_SpacedCalls(t *testing.T) {
	c := newFakeClock()
	var callCount int

	d := NewDebouncer(50*time.Millisecond, func() { callCount++ }, WithClock(c))

	for i := 0; i < 3; i++ {
		d.Call()
		c.Advance(100 * time.Millisecond)
	}

	assert.Equal(t, 3, callCount)
}

func TestDebouncer_Cancel(t *testing.T) {
	c := newFakeClock()
	var callCount int

	d := NewDebouncer(50*time.Millisecond, func() { callCount++ }, WithClock(c))

	d.Call()
	d.Cancel()
	c.Advance(100 * time.Millisecond)

	assert.Equal(t, 0, callCount)
	assert.False(t, d.IsPending())
	assert.Zero(t, c.Pending(), "cancel must not leak the timer")
}

func TestDebouncer_CallImmediate(t *testing.T) {
	c := newFakeClock()
	var callCount int

	d := NewDebouncer(100*time.Millisecond, func() { callCount++ }, WithClock(c))

	d.Call()
	d.CallImmediate()
	assert.Equal(t, 1, callCount)

	c.Advance(150 * time.Millisecond)
	assert.Equal(t, 1, callCount, "scheduled call was cleared")

	d.CallImmediate()
	assert.Equal(t, 1, callCount, "nothing pending")
}

func TestDebouncer_IsPending(t *testing.T) {
	c := newFakeClock()
	d := NewDebouncer(100*time.Millisecond, func() {}, WithClock(c))

	assert.False(t, d.IsPending())
	d.Call()
	assert.True(t, d.IsPending())
	c.Advance(100 * time.Millisecond)
	assert.False(t, d.IsPending())
}

func TestDebouncer_SetDelay(t *testing.T) {
	c := newFakeClock()
	var callCount int
	d := NewDebouncer(100*time.Millisecond, func() { callCount++ }, WithClock(c))

	d.SetDelay(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, d.Delay())

	d.Call()
	c.Advance(10 * time.Millisecond)
	assert.Equal(t, 1, callCount)
}

func TestDebouncer_RealClock(t *testing.T) {
	var callCount atomic.Int32

	d := NewDebouncer(20*time.Millisecond, func() { callCount.Add(1) })
	for i := 0; i < 5; i++ {
		d.Call()
	}

	assert.Eventually(t, func() bool { return callCount.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), callCount.Load())
}
